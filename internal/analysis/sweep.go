package analysis

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/kappasim/internal/config"
	"github.com/san-kum/kappasim/internal/dynamo"
	"github.com/san-kum/kappasim/internal/engine"
	"github.com/san-kum/kappasim/internal/metrics"
	"github.com/san-kum/kappasim/internal/stats"
)

// SweepPoint is the settled state of one run in a parameter sweep.
type SweepPoint struct {
	Param float64

	MeanRadius   float64
	RadiusStdDev float64
	InsideFrac   float64
	OutsideFrac  float64
	Lz           float64

	// Values are the distinct mean radii seen while recording, quantized to
	// a thousandth of the bin radius.
	Values []float64
}

// SweepSpec describes a one-parameter sweep.
type SweepSpec struct {
	Param     string
	Min, Max  float64
	Steps     int
	Transient int // ticks discarded before recording
	Record    int // ticks recorded
}

// Sweep runs base once per parameter value. Every run starts from the same
// seed, so differences come from the parameter alone.
func Sweep(ctx context.Context, base config.Simulation, spec SweepSpec) ([]SweepPoint, error) {
	steps := spec.Steps
	if steps <= 1 {
		steps = 2
	}
	step := (spec.Max - spec.Min) / float64(steps-1)
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	quantum := base.Stats.BinRadius / 1000

	results := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		value := spec.Min + float64(i)*step
		cfg, err := base.WithParam(spec.Param, value)
		if err != nil {
			return results, err
		}

		rec := &radiusRecorder{quantum: quantum, seen: make(map[int]bool)}
		eng, err := engine.New(cfg, engine.WithLogger(quiet), engine.WithObserver(rec))
		if err != nil {
			return results, err
		}

		err = eng.RunTicks(ctx, spec.Transient)
		if err == nil {
			rec.active = true
			err = eng.RunTicks(ctx, spec.Record)
		}
		snap := eng.Snapshot()
		eng.Close()
		if err != nil {
			return results, err
		}

		point := SweepPoint{Param: value, Values: rec.values}
		switch len(rec.radii) {
		case 0:
			point.MeanRadius = snap.Bodies.MeanRadius()
		case 1:
			point.MeanRadius = rec.radii[0]
		default:
			point.MeanRadius, point.RadiusStdDev = stat.MeanStdDev(rec.radii, nil)
		}
		if final := stats.Sample(snap.Bodies, cfg.Stats); final.Total > 0 {
			point.InsideFrac = float64(final.Inside) / float64(final.Total)
			point.OutsideFrac = float64(final.Outside) / float64(final.Total)
			point.Lz = metrics.Lz(snap.Bodies) / float64(final.Total)
		}
		results = append(results, point)
	}
	return results, nil
}

type radiusRecorder struct {
	active  bool
	quantum float64
	radii   []float64
	values  []float64
	seen    map[int]bool
}

func (r *radiusRecorder) OnTick(bodies dynamo.Population, t float64) {
	if !r.active {
		return
	}
	mr := bodies.MeanRadius()
	r.radii = append(r.radii, mr)
	key := int(mr / r.quantum)
	if !r.seen[key] {
		r.seen[key] = true
		r.values = append(r.values, mr)
	}
}

// SweepToASCII plots every recorded value against the swept parameter.
func SweepToASCII(data []SweepPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	found := false
	for _, p := range data {
		for _, v := range p.Values {
			if !found {
				minVal, maxVal = v, v
				found = true
				continue
			}
			minVal = min(minVal, v)
			maxVal = max(maxVal, v)
		}
	}
	if !found {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := blankCanvas(width, height)
	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}
	return canvasString(canvas)
}

func blankCanvas(width, height int) [][]rune {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}
	return canvas
}

func canvasString(canvas [][]rune) string {
	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
