package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/kappasim/internal/config"
	"github.com/san-kum/kappasim/internal/dynamo"
	"github.com/san-kum/kappasim/internal/experiment"
)

// Objective names the metric to optimize and its direction.
type Objective struct {
	Metric   string
	Maximize bool
}

// Result is the best point found by a grid search.
type Result struct {
	Params    map[string]float64
	Value     float64
	Evaluated int
	Rejected  int
}

// GridSearch evaluates every combination of parameter values with a short
// headless run and keeps the best objective value.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	ticks      int
	registry   *experiment.Registry
}

func NewGridSearch(params []string, ranges [][]float64, ticks int) *GridSearch {
	return &GridSearch{
		paramNames: params,
		ranges:     ranges,
		ticks:      ticks,
		registry:   experiment.NewRegistry(),
	}
}

// Search runs the grid starting from base. Combinations that fail
// validation are counted in Rejected and skipped.
func (g *GridSearch) Search(ctx context.Context, base config.Simulation, obj Objective) (*Result, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("got %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}
	if _, err := g.registry.GetMetric(obj.Metric, base); err != nil {
		return nil, err
	}

	res := &Result{Value: math.Inf(1)}
	if obj.Maximize {
		res.Value = math.Inf(-1)
	}

	if err := g.searchRecursive(ctx, 0, base, make(map[string]float64), obj, res); err != nil {
		return res, err
	}
	if res.Params == nil {
		return res, fmt.Errorf("no valid parameter combination (%d rejected)", res.Rejected)
	}
	return res, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	cfg config.Simulation,
	current map[string]float64,
	obj Objective,
	res *Result,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		metric, err := g.registry.GetMetric(obj.Metric, cfg)
		if err != nil {
			return err
		}
		exp := experiment.New(experiment.Config{Sim: cfg, Ticks: g.ticks, TraceEvery: g.ticks})
		if err := exp.Setup([]dynamo.Metric{metric}); err != nil {
			return err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		res.Evaluated++

		val := result.Metrics[obj.Metric]
		if better(val, res.Value, obj.Maximize) {
			res.Value = val
			res.Params = make(map[string]float64, len(current))
			for k, v := range current {
				res.Params[k] = v
			}
		}
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next, err := cfg.WithParam(name, val)
		if err != nil {
			res.Rejected++
			continue
		}

		params := make(map[string]float64, len(current)+1)
		for k, v := range current {
			params[k] = v
		}
		params[name] = val

		if err := g.searchRecursive(ctx, depth+1, next, params, obj, res); err != nil {
			return err
		}
	}
	return nil
}

func better(val, best float64, maximize bool) bool {
	if math.IsNaN(val) {
		return false
	}
	if maximize {
		return val > best
	}
	return val < best
}

// Linspace returns n evenly spaced values in [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
