package config

import (
	"errors"
	"testing"

	"github.com/san-kum/kappasim/internal/dynamo"
	"github.com/san-kum/kappasim/internal/physics"
)

func TestPresets_ApplyFromEitherMode(t *testing.T) {
	for _, p := range ListPresets() {
		for _, start := range []Simulation{DefaultFlock(), DefaultField()} {
			t.Run(p.String()+"/from-"+start.Mode.String(), func(t *testing.T) {
				got, err := p.Apply(start)
				if err != nil {
					t.Fatalf("Apply: %v", err)
				}
				if got.Mode != p.Mode() {
					t.Errorf("mode = %v, want %v", got.Mode, p.Mode())
				}
				if err := got.Validate(); err != nil {
					t.Errorf("result invalid: %v", err)
				}
			})
		}
	}
}

func TestPreset_KeepsSeedAcrossModes(t *testing.T) {
	cfg := DefaultFlock()
	cfg.Seed = 42
	got, err := PresetBarred.Apply(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got.Seed != 42 {
		t.Errorf("seed = %d, want 42", got.Seed)
	}
	if got.Perturbation.Amplitude != 0.3 {
		t.Errorf("amplitude = %v, want 0.3", got.Perturbation.Amplitude)
	}
}

func TestPreset_LeavesInputUntouchedOnError(t *testing.T) {
	cfg := DefaultField()
	cfg.Stats.Bins = 0

	got, err := PresetNewtonian.Apply(cfg)
	if !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Fatalf("got %v, want ErrInvalidConfig", err)
	}
	if got != cfg {
		t.Error("Apply modified the config on error")
	}
}

func TestParsePreset(t *testing.T) {
	for _, p := range ListPresets() {
		got, err := ParsePreset(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePreset(%q) = %v, %v", p.String(), got, err)
		}
		if p.Description() == "" {
			t.Errorf("%s has no description", p)
		}
	}

	if _, err := ParsePreset("galaxy"); !errors.Is(err, dynamo.ErrUnknownPreset) {
		t.Errorf("got %v, want ErrUnknownPreset", err)
	}
}

func TestPreset_NewtonianSwitchesLaw(t *testing.T) {
	got, err := PresetNewtonian.Apply(DefaultField())
	if err != nil {
		t.Fatal(err)
	}
	if got.Force.Kind != physics.LawNewton {
		t.Errorf("law = %v, want newton", got.Force.Kind)
	}
	if !RequiresReseed(DefaultField(), got) {
		t.Error("switching law must reseed")
	}
}
