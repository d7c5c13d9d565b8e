package integrators

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/kappasim/internal/dynamo"
)

// RK4 is the classical fourth-order scheme over (position, velocity). It costs
// four acceleration evaluations per tick and is used as an accuracy reference.
type RK4 struct {
	MaxSpeed float64

	k2, k3, k4 []r2.Vec
	v1, v2, v3 []r2.Vec
	scratch    dynamo.Population
}

func NewRK4(maxSpeed float64) *RK4 {
	return &RK4{MaxSpeed: maxSpeed}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	if len(r.scratch) != n {
		r.k2 = make([]r2.Vec, n)
		r.k3 = make([]r2.Vec, n)
		r.k4 = make([]r2.Vec, n)
		r.v1 = make([]r2.Vec, n)
		r.v2 = make([]r2.Vec, n)
		r.v3 = make([]r2.Vec, n)
		r.scratch = make(dynamo.Population, n)
	}
}

func (r *RK4) Step(sys dynamo.Accelerator, bodies dynamo.Population, acc []r2.Vec, t, dt float64) {
	n := len(bodies)
	r.ensureScratch(n)
	halfDt := 0.5 * dt

	// k1 lives in acc
	sys.Accelerate(bodies, t, acc)

	r.stage(bodies, bodies, acc, halfDt, r.v1)
	sys.Accelerate(r.scratch, t+halfDt, r.k2)

	r.stage(bodies, r.scratch, r.k2, halfDt, r.v2)
	sys.Accelerate(r.scratch, t+halfDt, r.k3)

	r.stage(bodies, r.scratch, r.k3, dt, r.v3)
	sys.Accelerate(r.scratch, t+dt, r.k4)

	sixth := dt / 6
	for i := range bodies {
		b := &bodies[i]
		// velocity samples at each stage are the position derivatives
		dx := r2.Add(r2.Add(b.Vel, r2.Scale(2, r.v1[i])), r2.Add(r2.Scale(2, r.v2[i]), r.v3[i]))
		dv := r2.Add(r2.Add(acc[i], r2.Scale(2, r.k2[i])), r2.Add(r2.Scale(2, r.k3[i]), r.k4[i]))
		b.Pos = r2.Add(b.Pos, r2.Scale(sixth, dx))
		b.Vel = ClampSpeed(r2.Add(b.Vel, r2.Scale(sixth, dv)), r.MaxSpeed)
	}
}

// stage builds scratch = base + h·(velocity of from, k) and records the stage
// velocity in vel.
func (r *RK4) stage(base, from dynamo.Population, k []r2.Vec, h float64, vel []r2.Vec) {
	for i := range base {
		v := from[i].Vel
		vel[i] = r2.Add(base[i].Vel, r2.Scale(h, k[i]))
		r.scratch[i] = dynamo.Body{
			Pos: r2.Add(base[i].Pos, r2.Scale(h, v)),
			Vel: vel[i],
		}
	}
}
