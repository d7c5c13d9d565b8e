package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/kappasim/internal/config"
	"github.com/san-kum/kappasim/internal/dynamo"
	"github.com/san-kum/kappasim/internal/integrators"
	"github.com/san-kum/kappasim/internal/metrics"
	"github.com/san-kum/kappasim/internal/physics"
)

// Registry resolves modes, integrators and metrics by name.
type Registry struct {
	modes       map[string]func() config.Simulation
	integrators map[string]func(maxSpeed float64) (dynamo.Integrator, error)
	metrics     map[string]func(cfg config.Simulation) dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		modes:       make(map[string]func() config.Simulation),
		integrators: make(map[string]func(float64) (dynamo.Integrator, error)),
		metrics:     make(map[string]func(config.Simulation) dynamo.Metric),
	}

	for _, m := range physics.Modes() {
		mode := m
		r.modes[mode.String()] = func() config.Simulation { return config.Default(mode) }
	}

	for _, n := range integrators.Names() {
		name := n
		r.integrators[name] = func(maxSpeed float64) (dynamo.Integrator, error) {
			return integrators.New(name, maxSpeed)
		}
	}

	r.metrics["kinetic_energy"] = func(config.Simulation) dynamo.Metric { return metrics.NewKineticEnergy() }
	r.metrics["energy_drift"] = func(config.Simulation) dynamo.Metric { return metrics.NewEnergyDrift() }
	r.metrics["angular_momentum"] = func(config.Simulation) dynamo.Metric { return metrics.NewAngularMomentum() }
	r.metrics["mean_radius"] = func(config.Simulation) dynamo.Metric { return metrics.NewMeanRadius() }
	r.metrics["confinement"] = func(cfg config.Simulation) dynamo.Metric {
		return metrics.NewConfinement(ConfinementBound(cfg))
	}

	return r
}

// ConfinementBound is the mean radius a healthy population stays within:
// the soft boundary in flock mode, the escape radius in field mode.
func ConfinementBound(cfg config.Simulation) float64 {
	if cfg.Mode == physics.ModeField {
		return cfg.Stats.EscapeRadius
	}
	return cfg.Flock.SoftBoundary
}

func (r *Registry) GetMode(name string) (config.Simulation, error) {
	fn, ok := r.modes[name]
	if !ok {
		return config.Simulation{}, fmt.Errorf("%w: %q", dynamo.ErrUnknownMode, name)
	}
	return fn(), nil
}

func (r *Registry) GetIntegrator(name string, maxSpeed float64) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownIntegrator, name)
	}
	return fn(maxSpeed)
}

func (r *Registry) GetMetric(name string, cfg config.Simulation) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) ListModes() []string       { return sortedKeys(r.modes) }
func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }
func (r *Registry) ListMetrics() []string     { return sortedKeys(r.metrics) }

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics(cfg config.Simulation) []dynamo.Metric {
	out := make([]dynamo.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name](cfg))
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
