package integrators

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/kappasim/internal/dynamo"
)

// Leapfrog is kick-drift-kick. It evaluates accelerations twice per tick:
// once at the tick-start state and once after the drift.
type Leapfrog struct {
	MaxSpeed float64
}

func NewLeapfrog(maxSpeed float64) *Leapfrog {
	return &Leapfrog{MaxSpeed: maxSpeed}
}

func (l *Leapfrog) Name() string { return "leapfrog" }

func (l *Leapfrog) Step(sys dynamo.Accelerator, bodies dynamo.Population, acc []r2.Vec, t, dt float64) {
	halfDt := 0.5 * dt

	sys.Accelerate(bodies, t, acc)
	for i := range bodies {
		b := &bodies[i]
		b.Vel = r2.Add(b.Vel, r2.Scale(halfDt, acc[i]))
		b.Pos = r2.Add(b.Pos, r2.Scale(dt, b.Vel))
	}

	sys.Accelerate(bodies, t+dt, acc)
	for i := range bodies {
		b := &bodies[i]
		b.Vel = ClampSpeed(r2.Add(b.Vel, r2.Scale(halfDt, acc[i])), l.MaxSpeed)
	}
}
