package experiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/san-kum/kappasim/internal/config"
	"github.com/san-kum/kappasim/internal/dynamo"
	"github.com/san-kum/kappasim/internal/engine"
	"github.com/san-kum/kappasim/internal/metrics"
)

type Config struct {
	Sim        config.Simulation
	Ticks      int
	TraceEvery int
	Logger     *slog.Logger
}

// Result holds per-trace-point series and the final state of a headless run.
type Result struct {
	Times      []float64
	MeanRadius []float64
	Lz         []float64
	Traces     map[string][]float64
	Metrics    map[string]float64
	Final      engine.Snapshot
	Elapsed    time.Duration
	TicksTaken int
}

type Experiment struct {
	cfg     Config
	metrics []dynamo.Metric
	rec     *recorder
}

func New(cfg Config) *Experiment {
	if cfg.TraceEvery < 1 {
		cfg.TraceEvery = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(ms []dynamo.Metric) error {
	if e.cfg.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", e.cfg.Ticks)
	}
	e.metrics = ms
	e.rec = newRecorder(e.cfg.TraceEvery, ms)
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.rec == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	eng, err := engine.New(e.cfg.Sim,
		engine.WithLogger(e.cfg.Logger),
		engine.WithMetrics(e.metrics...),
		engine.WithObserver(e.rec),
	)
	if err != nil {
		return nil, err
	}
	defer eng.Close()

	e.rec.record(eng.Snapshot().Bodies, 0)

	start := time.Now()
	runErr := eng.RunTicks(ctx, e.cfg.Ticks)
	elapsed := time.Since(start)

	res := &Result{
		Times:      e.rec.times,
		MeanRadius: e.rec.meanRadius,
		Lz:         e.rec.lz,
		Traces:     e.rec.traces,
		Metrics:    make(map[string]float64, len(e.metrics)),
		Final:      eng.Snapshot(),
		Elapsed:    elapsed,
		TicksTaken: int(eng.Clock().Tick),
	}
	for _, m := range e.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res, runErr
}

// recorder samples population-level series every n ticks.
type recorder struct {
	every      int
	count      int
	metrics    []dynamo.Metric
	times      []float64
	meanRadius []float64
	lz         []float64
	traces     map[string][]float64
}

func newRecorder(every int, ms []dynamo.Metric) *recorder {
	return &recorder{every: every, metrics: ms, traces: make(map[string][]float64, len(ms))}
}

func (r *recorder) OnTick(bodies dynamo.Population, t float64) {
	r.count++
	if r.count%r.every == 0 {
		r.record(bodies, t)
	}
}

func (r *recorder) record(bodies dynamo.Population, t float64) {
	r.times = append(r.times, t)
	r.meanRadius = append(r.meanRadius, bodies.MeanRadius())
	if len(bodies) > 0 {
		r.lz = append(r.lz, metrics.Lz(bodies)/float64(len(bodies)))
	} else {
		r.lz = append(r.lz, 0)
	}
	for _, m := range r.metrics {
		r.traces[m.Name()] = append(r.traces[m.Name()], m.Value())
	}
}
