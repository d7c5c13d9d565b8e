package config

import (
	"errors"
	"testing"

	"github.com/san-kum/kappasim/internal/dynamo"
)

func TestWithParam(t *testing.T) {
	for _, name := range ParamNames() {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultField()
			old, err := cfg.Param(name)
			if err != nil {
				t.Fatal(err)
			}

			want := old*0.5 + 0.01
			next, err := cfg.WithParam(name, want)
			if err != nil {
				t.Fatalf("WithParam: %v", err)
			}
			if got, _ := next.Param(name); got != want {
				t.Errorf("%s = %v, want %v", name, got, want)
			}
			if RequiresReseed(cfg, next) {
				t.Errorf("tuning %s must not reseed", name)
			}
			if got, _ := cfg.Param(name); got != old {
				t.Error("WithParam modified the receiver")
			}
		})
	}
}

func TestWithParam_Rejects(t *testing.T) {
	cfg := DefaultField()
	if _, err := cfg.WithParam("amplitude", 1.5); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("got %v, want ErrParameterBounds", err)
	}
	if _, err := cfg.WithParam("viscosity", 1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("got %v, want ErrParameterBounds", err)
	}
	if _, err := cfg.Param("viscosity"); err == nil {
		t.Error("expected error for unknown parameter")
	}
}
