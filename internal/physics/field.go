package physics

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/kappasim/internal/dynamo"
)

// parallelChunk is the minimum number of bodies handed to one worker.
const parallelChunk = 4096

// FieldParams describe the seeding annulus and the central softening floor.
type FieldParams struct {
	InnerRadius float64 `yaml:"inner_radius"`
	OuterRadius float64 `yaml:"outer_radius"`
	Softening   float64 `yaml:"softening"`
}

// Field is the large-population mode: each body feels only the closed-form
// central force, modulated by the rotating perturbation. There is no pairwise
// summation, so bodies are evaluated independently and in parallel.
type Field struct {
	Law     ForceLaw
	Perturb Perturbation
	Params  FieldParams

	tableOnce sync.Once
	table     *potentialTable
}

func NewField(law ForceLaw, perturb Perturbation, params FieldParams) *Field {
	return &Field{Law: law, Perturb: perturb, Params: params}
}

func (f *Field) Accelerate(bodies dynamo.Population, t float64, acc []r2.Vec) {
	dynamo.ParallelFor(len(bodies), parallelChunk, func(start, end int) {
		for i := start; i < end; i++ {
			acc[i] = f.accelAt(bodies[i].Pos, t)
		}
	})
}

func (f *Field) accelAt(pos r2.Vec, t float64) r2.Vec {
	r := r2.Norm(pos)
	if r == 0 {
		return r2.Vec{}
	}
	rs := f.floor(r)
	g := f.Perturb.Apply(f.Law.Magnitude(rs), pos, t)
	return r2.Scale(-g/r, pos)
}

// Energy is the total specific energy of the axisymmetric part of the field.
// Inside the softening radius the force magnitude is constant, so the
// potential continues linearly from its value at the floor.
func (f *Field) Energy(bodies dynamo.Population) float64 {
	type partial struct {
		start int
		sum   float64
	}
	var (
		mu    sync.Mutex
		parts []partial
	)
	potential := f.potential()
	eps := f.floor(0)
	phiEps := f.Law.Potential(eps)
	gEps := f.Law.Magnitude(eps)

	dynamo.ParallelFor(len(bodies), parallelChunk, func(start, end int) {
		e := 0.0
		for i := start; i < end; i++ {
			b := bodies[i]
			e += 0.5 * r2.Norm2(b.Vel)
			if r := b.Radius(); r < eps {
				e += phiEps - gEps*(eps-r)
			} else {
				e += potential(r)
			}
		}
		mu.Lock()
		parts = append(parts, partial{start, e})
		mu.Unlock()
	})

	// fixed summation order keeps the result independent of scheduling
	sort.Slice(parts, func(i, j int) bool { return parts[i].start < parts[j].start })
	total := 0.0
	for _, p := range parts {
		total += p.sum
	}
	return total
}

// potential returns the Φ(r) evaluator for r at or above the softening
// floor. The κ law is tabulated once out to a hundred outer radii.
func (f *Field) potential() func(float64) float64 {
	if f.Law.Kind != LawKappa {
		return f.Law.Potential
	}
	f.tableOnce.Do(func() {
		f.table = newPotentialTable(f.Law, f.floor(0), 100*max(f.Params.OuterRadius, 1))
	})
	return f.table.At
}

func (f *Field) floor(r float64) float64 {
	eps := f.Params.Softening
	if eps < MinSeparation {
		eps = MinSeparation
	}
	if r < eps {
		return eps
	}
	return r
}
