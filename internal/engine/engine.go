package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/kappasim/internal/config"
	"github.com/san-kum/kappasim/internal/dynamo"
	"github.com/san-kum/kappasim/internal/integrators"
	"github.com/san-kum/kappasim/internal/physics"
	"github.com/san-kum/kappasim/internal/stats"
)

// State is the lifecycle state of an engine.
type State int

const (
	StateSeeded State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateSeeded:
		return "seeded"
	case StateRunning:
		return "running"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics registers metrics observed after every tick. They are reset
// whenever the population is reseeded.
func WithMetrics(ms ...dynamo.Metric) Option {
	return func(e *Engine) { e.metrics = append(e.metrics, ms...) }
}

func WithObserver(o dynamo.Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

type Engine struct {
	mu sync.Mutex

	cfg        config.Simulation
	state      State
	closed     bool
	generation uint64
	rng        *rand.Rand

	bodies dynamo.Population
	acc    []r2.Vec
	clock  dynamo.Clock

	system   dynamo.Accelerator
	flock    *physics.Flock
	field    *physics.Field
	integ    dynamo.Integrator
	predator *physics.Predator
	sampler  *stats.Sampler

	metrics   []dynamo.Metric
	observers []dynamo.Observer
	logger    *slog.Logger
}

// New validates cfg and seeds the first population. The engine starts in
// StateSeeded with the clock at zero.
func New(cfg config.Simulation, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	e.rng = rand.New(rand.NewSource(cfg.Seed))
	e.sampler = stats.NewSampler(cfg.Stats)
	if err := e.rebuild(); err != nil {
		return nil, err
	}
	e.seed()
	return e, nil
}

// rebuild reconstructs the particle system and integrator from e.cfg
// without touching the population.
func (e *Engine) rebuild() error {
	integ, err := integrators.New(e.cfg.Integrator, e.cfg.MaxSpeed)
	if err != nil {
		return err
	}
	e.integ = integ

	switch e.cfg.Mode {
	case physics.ModeFlock:
		e.field = nil
		e.flock = physics.NewFlock(e.cfg.Force, e.cfg.Flock, e.cfg.Predator)
		e.flock.SetPredator(e.predator)
		e.system = e.flock
	case physics.ModeField:
		e.flock = nil
		e.predator = nil
		e.field = physics.NewField(e.cfg.Force, e.cfg.Perturbation, e.cfg.Field)
		e.system = e.field
	default:
		return fmt.Errorf("%w: %v", dynamo.ErrUnknownMode, e.cfg.Mode)
	}

	e.sampler.SetParams(e.cfg.Stats)
	for _, m := range e.metrics {
		if sa, ok := m.(dynamo.SystemAware); ok {
			sa.Bind(e.system)
		}
	}
	return nil
}

// seed replaces the population and resets every per-generation value.
func (e *Engine) seed() {
	switch e.cfg.Mode {
	case physics.ModeField:
		e.bodies = physics.SeedField(e.rng, e.cfg.Population, e.cfg.Force, e.cfg.Field)
	default:
		e.bodies = physics.SeedFlock(e.rng, e.cfg.Population, e.cfg.Flock)
	}
	e.acc = make([]r2.Vec, len(e.bodies))
	e.clock = dynamo.NewClock(e.cfg.Dt)
	e.generation++
	e.state = StateSeeded
	e.clearPredator()

	for _, m := range e.metrics {
		m.Reset()
	}
	e.sampler.Reset()
	e.sampler.Force(e.bodies, e.clock, e.generation)

	e.logger.Info("population seeded",
		"mode", e.cfg.Mode,
		"law", e.cfg.Force.Kind,
		"population", len(e.bodies),
		"seed", e.cfg.Seed,
		"generation", e.generation,
	)
}

func (e *Engine) clearPredator() {
	e.predator = nil
	if e.flock != nil {
		e.flock.SetPredator(nil)
	}
}

// Tick advances the simulation by exactly one fixed timestep.
func (e *Engine) Tick() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tick()
}

// Step runs n ticks, stopping at the first error.
func (e *Engine) Step(n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := 0; i < n; i++ {
		if err := e.tick(); err != nil {
			return err
		}
	}
	return nil
}

// Frame runs one presentation frame: StepsPerFrame ticks.
func (e *Engine) Frame() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := 0; i < e.cfg.StepsPerFrame; i++ {
		if err := e.tick(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) tick() error {
	if e.closed {
		return dynamo.ErrEngineClosed
	}
	e.state = StateRunning

	e.integ.Step(e.system, e.bodies, e.acc, e.clock.Time, e.clock.Dt)
	e.clock.Advance()

	if e.predator != nil && !e.predator.Advance() {
		e.logger.Debug("predator expired", "tick", e.clock.Tick)
		e.clearPredator()
	}

	for _, m := range e.metrics {
		m.Observe(e.bodies, e.clock.Time)
	}
	for _, o := range e.observers {
		o.OnTick(e.bodies, e.clock.Time)
	}

	if e.sampler.Observe(e.bodies, e.clock, e.generation) {
		snap, _ := e.sampler.Latest()
		e.logger.Debug("stats sampled",
			"tick", snap.Tick,
			"inside", snap.Inside,
			"outside", snap.Outside,
			"mean_radius", snap.MeanRadius,
		)
		if !e.bodies.IsValid() {
			return &dynamo.SimulationError{Tick: e.clock.Tick, Time: e.clock.Time, Wrapped: dynamo.ErrInvalidState}
		}
	}
	return nil
}

// Apply installs a new configuration between ticks. An invalid cfg is
// rejected and the current configuration stays active. When cfg changes the
// initial conditions the population is reseeded and the engine returns to
// StateSeeded; otherwise the new parameters take effect on the next tick.
func (e *Engine) Apply(cfg config.Simulation) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return dynamo.ErrEngineClosed
	}
	if err := cfg.Validate(); err != nil {
		e.logger.Warn("configuration rejected", "error", err)
		return err
	}

	old := e.cfg
	reseed := config.RequiresReseed(old, cfg)
	e.cfg = cfg
	if err := e.rebuild(); err != nil {
		e.cfg = old
		if rerr := e.rebuild(); rerr != nil {
			e.logger.Error("restoring configuration failed", "error", rerr)
		}
		return err
	}

	if reseed {
		if old.Seed != cfg.Seed {
			e.rng = rand.New(rand.NewSource(cfg.Seed))
		}
		e.seed()
	}
	return nil
}

// Reseed draws a fresh population from the current configuration and
// resets the clock.
func (e *Engine) Reseed() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return dynamo.ErrEngineClosed
	}
	e.seed()
	return nil
}

// ArmPredator places the transient repulsor at pos for its configured
// lifetime, replacing any active one. It reports whether a predator was
// armed; field mode has no predator.
func (e *Engine) ArmPredator(pos r2.Vec) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.flock == nil {
		return false
	}
	ticks := e.cfg.Predator.LifetimeTicks(e.cfg.Dt)
	if ticks == 0 || e.cfg.Predator.Radius == 0 {
		return false
	}
	e.predator = physics.NewPredator(pos, ticks)
	e.flock.SetPredator(e.predator)
	e.logger.Info("predator armed", "x", pos.X, "y", pos.Y, "ticks", ticks)
	return true
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Config() config.Simulation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

func (e *Engine) Clock() dynamo.Clock {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock
}

// Close stops the engine and releases the population. Further ticks
// return ErrEngineClosed.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.bodies = nil
	e.acc = nil
	e.clearPredator()
}
