package engine

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/san-kum/kappasim/internal/config"
	"github.com/san-kum/kappasim/internal/dynamo"
	"github.com/san-kum/kappasim/internal/stats"
)

// EnsembleResult is the outcome of one member of an ensemble.
type EnsembleResult struct {
	Seed    int64
	Final   stats.Snapshot
	Metrics map[string]float64
}

// Ensemble runs the same configuration under consecutive seeds, one engine
// per goroutine.
type Ensemble struct {
	cfg        config.Simulation
	numRuns    int
	seedStart  int64
	newMetrics func() []dynamo.Metric
}

// NewEnsemble prepares numRuns runs of cfg seeded seedStart, seedStart+1, ...
// newMetrics, if non-nil, is called once per run so no metric is shared. The
// calls happen sequentially on the caller's goroutine before any run starts.
func NewEnsemble(cfg config.Simulation, numRuns int, seedStart int64, newMetrics func() []dynamo.Metric) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart, newMetrics: newMetrics}
}

func (en *Ensemble) Run(ctx context.Context, ticks int) ([]EnsembleResult, error) {
	results := make([]EnsembleResult, en.numRuns)
	errs := make([]error, en.numRuns)
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	perRun := make([][]dynamo.Metric, en.numRuns)
	if en.newMetrics != nil {
		for i := range perRun {
			perRun[i] = en.newMetrics()
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < en.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfg := en.cfg
			cfg.Seed = en.seedStart + int64(idx)

			eng, err := New(cfg, WithLogger(quiet), WithMetrics(perRun[idx]...))
			if err != nil {
				errs[idx] = err
				return
			}
			defer eng.Close()

			if err := eng.RunTicks(ctx, ticks); err != nil {
				errs[idx] = err
				return
			}

			snap := eng.Snapshot()
			final := snap.Stats
			if !snap.HasStats || final.Tick != snap.Clock.Tick {
				final = stats.Sample(snap.Bodies, cfg.Stats)
				final.Tick = snap.Clock.Tick
				final.Time = snap.Clock.Time
				final.Generation = snap.Generation
			}
			results[idx] = EnsembleResult{Seed: cfg.Seed, Final: final, Metrics: snap.Metrics}
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
