package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/kappasim/internal/dynamo"
	"github.com/san-kum/kappasim/internal/physics"
)

// Params controls the sampling cadence and the reference radii.
type Params struct {
	CoreRadius   float64 `yaml:"core_radius"`
	EscapeRadius float64 `yaml:"escape_radius"`
	BinRadius    float64 `yaml:"bin_radius"`
	Bins         int     `yaml:"bins"`
	Interval     int     `yaml:"interval"`
}

// Snapshot is a read-only summary of one population at one tick.
type Snapshot struct {
	Tick       uint64
	Time       float64
	Generation uint64

	Total   int
	Inside  int
	Middle  int
	Outside int

	// BinEdges has len(BinMeans)+1 entries spanning [0, BinRadius].
	BinEdges  []float64
	BinMeans  []float64
	BinCounts []int

	MeanRadius   float64
	RadiusStdDev float64
}

// BinCenters returns the midpoint radius of every bin.
func (s Snapshot) BinCenters() []float64 {
	if len(s.BinEdges) < 2 {
		return nil
	}
	centers := make([]float64, len(s.BinEdges)-1)
	for i := range centers {
		centers[i] = 0.5 * (s.BinEdges[i] + s.BinEdges[i+1])
	}
	return centers
}

// TangentialSpeed returns sqrt(max(|v|² − v_r², 0)). A body exactly at the
// center has no defined radial direction and reports zero.
func TangentialSpeed(b dynamo.Body) float64 {
	r := r2.Norm(b.Pos)
	if r == 0 {
		return 0
	}
	vr := r2.Dot(b.Vel, b.Pos) / r
	return math.Sqrt(math.Max(r2.Norm2(b.Vel)-vr*vr, 0))
}

// Sample computes a snapshot of bodies. It does not retain bodies.
func Sample(bodies dynamo.Population, p Params) Snapshot {
	return sample(bodies, p, make([]float64, len(bodies)))
}

func sample(bodies dynamo.Population, p Params, radii []float64) Snapshot {
	bins := p.Bins
	if bins < 1 {
		bins = 1
	}

	snap := Snapshot{
		Total:     len(bodies),
		BinEdges:  floats.Span(make([]float64, bins+1), 0, p.BinRadius),
		BinMeans:  make([]float64, bins),
		BinCounts: make([]int, bins),
	}
	width := p.BinRadius / float64(bins)

	for i, b := range bodies {
		r := b.Radius()
		radii[i] = r

		switch {
		case r < p.CoreRadius:
			snap.Inside++
		case r > p.EscapeRadius:
			snap.Outside++
		}

		// NaN radii are left for the population validity check
		if width <= 0 || math.IsNaN(r) || r >= p.BinRadius {
			continue
		}
		idx := int(r / width)
		if idx >= bins {
			idx = bins - 1
		}
		snap.BinMeans[idx] += TangentialSpeed(b)
		snap.BinCounts[idx]++
	}
	snap.Middle = snap.Total - snap.Inside - snap.Outside

	for i, n := range snap.BinCounts {
		if n > 0 {
			snap.BinMeans[i] /= float64(n)
		}
	}

	switch len(radii) {
	case 0:
	case 1:
		snap.MeanRadius = radii[0]
	default:
		snap.MeanRadius, snap.RadiusStdDev = stat.MeanStdDev(radii, nil)
	}
	return snap
}

// Sampler produces snapshots every Interval ticks and keeps the latest one.
type Sampler struct {
	params Params
	radii  []float64
	latest Snapshot
	has    bool
}

func NewSampler(p Params) *Sampler {
	return &Sampler{params: p}
}

func (s *Sampler) Params() Params { return s.params }

// SetParams replaces the sampling parameters. The latest snapshot is kept
// until the next sample.
func (s *Sampler) SetParams(p Params) { s.params = p }

// Due reports whether a sample should be taken at tick.
func (s *Sampler) Due(tick uint64) bool {
	interval := s.params.Interval
	if interval < 1 {
		interval = 1
	}
	return tick%uint64(interval) == 0
}

// Observe samples bodies when the clock tick is due. It reports whether a
// new snapshot was produced.
func (s *Sampler) Observe(bodies dynamo.Population, clock dynamo.Clock, generation uint64) bool {
	if !s.Due(clock.Tick) {
		return false
	}
	s.Force(bodies, clock, generation)
	return true
}

// Force samples bodies regardless of cadence.
func (s *Sampler) Force(bodies dynamo.Population, clock dynamo.Clock, generation uint64) Snapshot {
	if cap(s.radii) < len(bodies) {
		s.radii = make([]float64, len(bodies))
	}
	snap := sample(bodies, s.params, s.radii[:len(bodies)])
	snap.Tick = clock.Tick
	snap.Time = clock.Time
	snap.Generation = generation
	s.latest = snap
	s.has = true
	return snap
}

// Latest returns the most recent snapshot, if any.
func (s *Sampler) Latest() (Snapshot, bool) {
	return s.latest, s.has
}

// Reset drops the latest snapshot. Called when the population is replaced.
func (s *Sampler) Reset() {
	s.latest = Snapshot{}
	s.has = false
}

// ExpectedCurve returns the circular speed of law at every radius in rs.
func ExpectedCurve(law physics.ForceLaw, rs []float64) []float64 {
	out := make([]float64, len(rs))
	for i, r := range rs {
		out[i] = law.CircularSpeed(r)
	}
	return out
}
