package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/kappasim/internal/config"
	"github.com/san-kum/kappasim/internal/integrators"
	"github.com/san-kum/kappasim/internal/physics"
)

// simFlags are the configuration flags shared by every command that builds
// a simulation.
type simFlags struct {
	mode       string
	preset     string
	configFile string
	integrator string
	law        string
	seed       int64
	bodies     int
	dt         float64
}

func (f *simFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.mode, "mode", "flock", "simulation mode (flock, field)")
	fs.StringVar(&f.preset, "preset", "", "apply a named preset")
	fs.StringVar(&f.configFile, "config", "", "config file path (yaml)")
	fs.StringVar(&f.integrator, "integrator", integrators.Default, "integrator")
	fs.StringVar(&f.law, "law", "", "force law (newton, kappa)")
	fs.Int64Var(&f.seed, "seed", config.DefaultSeed, "random seed")
	fs.IntVar(&f.bodies, "bodies", 0, "population size (0 keeps the mode default)")
	fs.Float64Var(&f.dt, "dt", 0, "fixed timestep (0 keeps the mode default)")
}

// resolve layers, in order: mode defaults, config file, preset, then any
// flag the user set explicitly. The result is validated.
func (f *simFlags) resolve(cmd *cobra.Command) (config.Simulation, error) {
	mode, err := physics.ParseMode(f.mode)
	if err != nil {
		return config.Simulation{}, err
	}
	cfg := config.Default(mode)

	if f.configFile != "" {
		if cfg, err = config.Load(f.configFile); err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if f.preset != "" {
		p, err := config.ParsePreset(f.preset)
		if err != nil {
			return cfg, err
		}
		if cfg, err = p.Apply(cfg); err != nil {
			return cfg, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("seed") || f.configFile == "" {
		cfg.Seed = f.seed
	}
	if changed("integrator") {
		cfg.Integrator = f.integrator
	}
	if changed("law") {
		if cfg.Force.Kind, err = physics.ParseLaw(f.law); err != nil {
			return cfg, err
		}
	}
	if changed("bodies") && f.bodies > 0 {
		cfg.Population = f.bodies
	}
	if changed("dt") && f.dt > 0 {
		cfg.Dt = f.dt
	}
	return cfg, cfg.Validate()
}

// newLogger builds the process logger. Output goes to path when set,
// otherwise to w.
func newLogger(level, path string, w io.Writer) (*slog.Logger, func() error, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", level, err)
	}
	closer := func() error { return nil }
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		w, closer = f, f.Close
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), closer, nil
}
