package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/kappasim/internal/integrators"
	"github.com/san-kum/kappasim/internal/physics"
	"github.com/san-kum/kappasim/internal/stats"
)

const (
	DefaultFlockBodies = 120
	DefaultFieldBodies = 100000
	DefaultFlockDt     = 1.0 / 60
	DefaultFieldDt     = 0.01
	DefaultSeed        = 1

	MaxPopulation    = 1000000
	MaxStepsPerFrame = 64
	MaxBins          = 1000
	MaxOrder         = 12
	MaxExpLimit      = 700
)

// Simulation is an immutable snapshot of every engine parameter. Values are
// copied, never shared, so a Simulation can be handed across goroutines.
type Simulation struct {
	Mode          physics.Mode `yaml:"mode"`
	Integrator    string       `yaml:"integrator"`
	Population    int          `yaml:"population"`
	Seed          int64        `yaml:"seed"`
	Dt            float64      `yaml:"dt"`
	MaxSpeed      float64      `yaml:"max_speed"`
	StepsPerFrame int          `yaml:"steps_per_frame"`

	Force        physics.ForceLaw       `yaml:"force"`
	Perturbation physics.Perturbation   `yaml:"perturbation"`
	Flock        physics.FlockParams    `yaml:"flock"`
	Predator     physics.PredatorParams `yaml:"predator"`
	Field        physics.FieldParams    `yaml:"field"`
	Stats        stats.Params           `yaml:"stats"`
}

func defaultForce() physics.ForceLaw {
	return physics.ForceLaw{
		Kind:            physics.LawKappa,
		DensityRatio:    1,
		DensityExponent: 0.5,
		ExpLimit:        physics.DefaultExpLimit,
	}
}

// DefaultFlock returns the small-population flocking configuration.
func DefaultFlock() Simulation {
	force := defaultForce()
	force.GM = 2.5e4
	force.Kappa0 = 0.02
	force.KappaScale = 100

	return Simulation{
		Mode:          physics.ModeFlock,
		Integrator:    integrators.Default,
		Population:    DefaultFlockBodies,
		Seed:          DefaultSeed,
		Dt:            DefaultFlockDt,
		MaxSpeed:      180,
		StepsPerFrame: 1,
		Force:         force,
		Perturbation:  physics.Perturbation{Order: physics.DefaultOrder},
		Flock: physics.FlockParams{
			HardCore:       10,
			Cutoff:         150,
			AlignRadius:    50,
			AlignStrength:  30,
			RepulsionGain:  2000,
			AttractionGain: 1,
			SoftBoundary:   260,
			ConfineGain:    0.05,
			SpawnRadius:    160,
			InitialSpeed:   40,
		},
		Predator: physics.PredatorParams{Radius: 120, Strength: 20, Lifetime: 3},
		Field:    defaultField(),
		Stats: stats.Params{
			CoreRadius:   60,
			EscapeRadius: 260,
			BinRadius:    300,
			Bins:         15,
			Interval:     12,
		},
	}
}

func defaultField() physics.FieldParams {
	return physics.FieldParams{InnerRadius: 0.5, OuterRadius: 10, Softening: 0.05}
}

// DefaultField returns the large-population field configuration.
func DefaultField() Simulation {
	cfg := DefaultFlock()
	cfg.Mode = physics.ModeField
	cfg.Population = DefaultFieldBodies
	cfg.Dt = DefaultFieldDt
	cfg.MaxSpeed = 5
	cfg.Force.GM = 1
	cfg.Force.Kappa0 = 0.3
	cfg.Force.KappaScale = 4
	cfg.Perturbation = physics.Perturbation{Amplitude: 0.05, Omega: 0.3, Order: physics.DefaultOrder}
	cfg.Field = defaultField()
	cfg.Stats = stats.Params{
		CoreRadius:   2,
		EscapeRadius: 15,
		BinRadius:    12,
		Bins:         20,
		Interval:     12,
	}
	return cfg
}

// Default returns the default configuration for mode.
func Default(mode physics.Mode) Simulation {
	if mode == physics.ModeField {
		return DefaultField()
	}
	return DefaultFlock()
}

// Load reads a YAML configuration. Fields missing from the file keep the
// defaults of the mode named in the file (flock if none).
func Load(path string) (Simulation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Simulation{}, err
	}

	var head struct {
		Mode physics.Mode `yaml:"mode"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Simulation{}, err
	}

	cfg := Default(head.Mode)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Simulation{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Simulation{}, err
	}
	return cfg, nil
}

func Save(path string, cfg Simulation) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// RequiresReseed reports whether moving from old to next changes the initial
// conditions or the clock step, in which case the population must be
// replaced. Every other parameter takes effect at the next tick boundary.
func RequiresReseed(old, next Simulation) bool {
	if old.Mode != next.Mode ||
		old.Force.Kind != next.Force.Kind ||
		old.Population != next.Population ||
		old.Seed != next.Seed ||
		old.Dt != next.Dt {
		return true
	}
	switch next.Mode {
	case physics.ModeField:
		return old.Field.InnerRadius != next.Field.InnerRadius ||
			old.Field.OuterRadius != next.Field.OuterRadius
	default:
		return old.Flock.SoftBoundary != next.Flock.SoftBoundary ||
			old.Flock.SpawnRadius != next.Flock.SpawnRadius ||
			old.Flock.InitialSpeed != next.Flock.InitialSpeed
	}
}

// FrameDuration is the simulated time covered by one presentation frame.
func (c Simulation) FrameDuration() float64 {
	return c.Dt * float64(c.StepsPerFrame)
}
