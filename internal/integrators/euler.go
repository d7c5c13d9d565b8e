package integrators

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/kappasim/internal/dynamo"
)

// SemiImplicit is symplectic Euler: v += a·dt, clamp, x += v·dt.
// Accelerations for every body are computed before any body moves.
type SemiImplicit struct {
	MaxSpeed float64
}

func NewSemiImplicit(maxSpeed float64) *SemiImplicit {
	return &SemiImplicit{MaxSpeed: maxSpeed}
}

func (s *SemiImplicit) Name() string { return "semi-implicit" }

func (s *SemiImplicit) Step(sys dynamo.Accelerator, bodies dynamo.Population, acc []r2.Vec, t, dt float64) {
	sys.Accelerate(bodies, t, acc)
	for i := range bodies {
		b := &bodies[i]
		b.Vel = ClampSpeed(r2.Add(b.Vel, r2.Scale(dt, acc[i])), s.MaxSpeed)
		b.Pos = r2.Add(b.Pos, r2.Scale(dt, b.Vel))
	}
}

// Euler is the explicit forward Euler scheme; positions advance with the
// tick-start velocity. Kept for comparison, it drifts on orbits.
type Euler struct {
	MaxSpeed float64
}

func NewEuler(maxSpeed float64) *Euler {
	return &Euler{MaxSpeed: maxSpeed}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(sys dynamo.Accelerator, bodies dynamo.Population, acc []r2.Vec, t, dt float64) {
	sys.Accelerate(bodies, t, acc)
	for i := range bodies {
		b := &bodies[i]
		b.Pos = r2.Add(b.Pos, r2.Scale(dt, b.Vel))
		b.Vel = ClampSpeed(r2.Add(b.Vel, r2.Scale(dt, acc[i])), e.MaxSpeed)
	}
}
