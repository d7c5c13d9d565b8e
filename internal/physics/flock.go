package physics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/kappasim/internal/dynamo"
)

// FlockParams holds the interaction radii and gains of flocking mode.
// The defaults are empirical and tunable, not physically derived.
type FlockParams struct {
	HardCore       float64 `yaml:"hard_core"`
	Cutoff         float64 `yaml:"cutoff"`
	AlignRadius    float64 `yaml:"align_radius"`
	AlignStrength  float64 `yaml:"align_strength"`
	RepulsionGain  float64 `yaml:"repulsion_gain"`
	AttractionGain float64 `yaml:"attraction_gain"`
	SoftBoundary   float64 `yaml:"soft_boundary"`
	ConfineGain    float64 `yaml:"confine_gain"`
	SpawnRadius    float64 `yaml:"spawn_radius"`
	InitialSpeed   float64 `yaml:"initial_speed"`
}

// Flock is the small-population pairwise system. Each pair is visited once
// and contributes equal and opposite repulsion/attraction, so the result does
// not depend on body order.
type Flock struct {
	Law      ForceLaw
	Params   FlockParams
	Predator PredatorParams

	predator *Predator
	alignSum []r2.Vec
	alignN   []int
}

func NewFlock(law ForceLaw, params FlockParams, predator PredatorParams) *Flock {
	return &Flock{Law: law, Params: params, Predator: predator}
}

// SetPredator installs the active repulsor for the coming tick; nil clears it.
func (f *Flock) SetPredator(p *Predator) { f.predator = p }

func (f *Flock) Accelerate(bodies dynamo.Population, t float64, acc []r2.Vec) {
	n := len(bodies)
	f.ensureScratch(n)
	for i := 0; i < n; i++ {
		acc[i] = r2.Vec{}
		f.alignSum[i] = r2.Vec{}
		f.alignN[i] = 0
	}

	p := f.Params
	for i := 0; i < n; i++ {
		bi := bodies[i]
		for j := i + 1; j < n; j++ {
			bj := bodies[j]
			d := r2.Sub(bj.Pos, bi.Pos)
			r := r2.Norm(d)

			if r < p.AlignRadius {
				f.alignSum[i] = r2.Add(f.alignSum[i], bj.Vel)
				f.alignSum[j] = r2.Add(f.alignSum[j], bi.Vel)
				f.alignN[i]++
				f.alignN[j]++
			}

			// coincident bodies have no direction: no pair force
			if r == 0 {
				continue
			}
			dir := r2.Scale(1/r, d)
			rs := r
			if rs < MinSeparation {
				rs = MinSeparation
			}

			switch {
			case r < p.HardCore:
				push := r2.Scale(p.RepulsionGain/rs, dir)
				acc[i] = r2.Sub(acc[i], push)
				acc[j] = r2.Add(acc[j], push)
			case r < p.Cutoff:
				pull := r2.Scale(p.AttractionGain*f.Law.Magnitude(rs), dir)
				acc[i] = r2.Add(acc[i], pull)
				acc[j] = r2.Sub(acc[j], pull)
			}
		}
	}

	for i := 0; i < n; i++ {
		if f.alignN[i] > 0 {
			avg := r2.Scale(1/float64(f.alignN[i]), f.alignSum[i])
			if norm := r2.Norm(avg); norm > 1e-9 {
				acc[i] = r2.Add(acc[i], r2.Scale(p.AlignStrength/norm, avg))
			}
		}

		acc[i] = r2.Add(acc[i], f.confine(bodies[i].Pos))

		if f.predator.Active() {
			acc[i] = r2.Add(acc[i], f.predator.kick(bodies[i].Pos, f.Predator))
		}
	}
}

// confine returns the soft-wall restoring acceleration, growing with the
// square of the distance beyond the boundary.
func (f *Flock) confine(pos r2.Vec) r2.Vec {
	dist := r2.Norm(pos)
	if dist <= f.Params.SoftBoundary || dist == 0 {
		return r2.Vec{}
	}
	excess := dist - f.Params.SoftBoundary
	return r2.Scale(-f.Params.ConfineGain*excess*excess/dist, pos)
}

func (f *Flock) ensureScratch(n int) {
	if len(f.alignSum) != n {
		f.alignSum = make([]r2.Vec, n)
		f.alignN = make([]int, n)
	}
}
