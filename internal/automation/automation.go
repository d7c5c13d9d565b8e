package automation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/kappasim/internal/config"
	"github.com/san-kum/kappasim/internal/experiment"
	"github.com/san-kum/kappasim/internal/storage"
)

// Scenario is a scripted sequence of headless runs. Each step starts from
// the previous step's configuration, so a scenario reads as a list of edits.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Base        string         `yaml:"base"` // optional config file
	Steps       []ScenarioStep `yaml:"steps"`
}

type ScenarioStep struct {
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Law        string             `yaml:"law"`
	Seed       int64              `yaml:"seed"`
	Population int                `yaml:"population"`
	Params     map[string]float64 `yaml:"params"`
	Ticks      int                `yaml:"ticks"`
	TraceEvery int                `yaml:"trace_every"`
	SaveAs     string             `yaml:"save_as"`
}

// StepResult pairs a step's effective configuration with its outcome.
type StepResult struct {
	Config config.Simulation
	Result *experiment.Result
	RunID  string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &sc, nil
}

// Runner executes scenarios. Steps with save_as are written to Store when
// it is set.
type Runner struct {
	Registry *experiment.Registry
	Store    *storage.Store
	Logger   *slog.Logger
}

func NewRunner(store *storage.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{Registry: experiment.NewRegistry(), Store: store, Logger: logger}
}

// Run executes every step in order and stops at the first failure. Results
// of completed steps are returned alongside the error.
func (r *Runner) Run(ctx context.Context, sc *Scenario, base config.Simulation) ([]StepResult, error) {
	if sc.Base != "" {
		loaded, err := config.Load(sc.Base)
		if err != nil {
			return nil, err
		}
		base = loaded
	}

	results := make([]StepResult, 0, len(sc.Steps))
	cfg := base
	for i, step := range sc.Steps {
		next, err := step.apply(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		cfg = next

		r.Logger.Info("scenario step", "scenario", sc.Name, "step", i+1, "of", len(sc.Steps),
			"mode", cfg.Mode, "law", cfg.Force.Kind, "ticks", step.Ticks)

		exp := experiment.New(experiment.Config{Sim: cfg, Ticks: step.Ticks, TraceEvery: step.TraceEvery, Logger: r.Logger})
		if err := exp.Setup(r.Registry.DefaultMetrics(cfg)); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Config: cfg, Result: res}
		if step.SaveAs != "" && r.Store != nil {
			id, err := r.Store.Save(step.SaveAs, cfg, res)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}
	return results, nil
}

// apply layers the step's edits over cfg in a fixed order: preset, then
// scalar overrides, then named parameters. The result is validated.
func (s ScenarioStep) apply(cfg config.Simulation) (config.Simulation, error) {
	if s.Preset != "" {
		p, err := config.ParsePreset(s.Preset)
		if err != nil {
			return cfg, err
		}
		if cfg, err = p.Apply(cfg); err != nil {
			return cfg, err
		}
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Law != "" {
		if err := cfg.Force.Kind.UnmarshalText([]byte(s.Law)); err != nil {
			return cfg, err
		}
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Population != 0 {
		cfg.Population = s.Population
	}
	for name, v := range s.Params {
		next, err := cfg.WithParam(name, v)
		if err != nil {
			return cfg, err
		}
		cfg = next
	}
	return cfg, cfg.Validate()
}
