package integrators

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/kappasim/internal/dynamo"
)

// spring is a unit harmonic oscillator: a = -x.
type spring struct{}

func (spring) Accelerate(bodies dynamo.Population, t float64, acc []r2.Vec) {
	for i, b := range bodies {
		acc[i] = r2.Scale(-1, b.Pos)
	}
}

// constant pushes every body with the same acceleration.
type constant struct{ a r2.Vec }

func (c constant) Accelerate(bodies dynamo.Population, t float64, acc []r2.Vec) {
	for i := range bodies {
		acc[i] = c.a
	}
}

func allIntegrators(maxSpeed float64) []dynamo.Integrator {
	return []dynamo.Integrator{
		NewSemiImplicit(maxSpeed),
		NewEuler(maxSpeed),
		NewLeapfrog(maxSpeed),
		NewRK4(maxSpeed),
	}
}

func TestSemiImplicit_SingleStep(t *testing.T) {
	integ := NewSemiImplicit(0)
	bodies := dynamo.Population{{Pos: r2.Vec{X: 1}, Vel: r2.Vec{Y: 2}}}
	acc := make([]r2.Vec, 1)

	integ.Step(constant{r2.Vec{X: 4}}, bodies, acc, 0, 0.5)

	// v = (0,2) + 0.5·(4,0) = (2,2); x = (1,0) + 0.5·(2,2) = (2,1)
	if bodies[0].Vel != (r2.Vec{X: 2, Y: 2}) {
		t.Errorf("vel = %v, want (2,2)", bodies[0].Vel)
	}
	if bodies[0].Pos != (r2.Vec{X: 2, Y: 1}) {
		t.Errorf("pos = %v, want (2,1)", bodies[0].Pos)
	}
}

func TestEuler_UsesStartVelocity(t *testing.T) {
	integ := NewEuler(0)
	bodies := dynamo.Population{{Pos: r2.Vec{X: 1}, Vel: r2.Vec{Y: 2}}}
	acc := make([]r2.Vec, 1)

	integ.Step(constant{r2.Vec{X: 4}}, bodies, acc, 0, 0.5)

	if bodies[0].Pos != (r2.Vec{X: 1, Y: 1}) {
		t.Errorf("pos = %v, want (1,1)", bodies[0].Pos)
	}
}

func TestSpeedClamp(t *testing.T) {
	for _, integ := range allIntegrators(10) {
		t.Run(integ.Name(), func(t *testing.T) {
			bodies := dynamo.Population{{Vel: r2.Vec{X: 3, Y: 4}}}
			acc := make([]r2.Vec, 1)
			integ.Step(constant{r2.Vec{X: 3000, Y: 4000}}, bodies, acc, 0, 1)

			v := bodies[0].Vel
			if math.Abs(r2.Norm(v)-10) > 1e-9 {
				t.Errorf("speed = %v, want 10", r2.Norm(v))
			}
			if math.Abs(v.X/v.Y-0.75) > 1e-9 {
				t.Errorf("direction changed: %v", v)
			}
		})
	}
}

func TestClampSpeed(t *testing.T) {
	tests := []struct {
		name string
		in   r2.Vec
		max  float64
		want r2.Vec
	}{
		{"below", r2.Vec{X: 1}, 5, r2.Vec{X: 1}},
		{"exact", r2.Vec{X: 3, Y: 4}, 5, r2.Vec{X: 3, Y: 4}},
		{"above", r2.Vec{X: 0, Y: -20}, 5, r2.Vec{X: 0, Y: -5}},
		{"disabled", r2.Vec{X: 100}, 0, r2.Vec{X: 100}},
		{"infinite", r2.Vec{X: math.Inf(1)}, 5, r2.Vec{X: 5}},
		{"infinite keeps sign", r2.Vec{X: 3, Y: math.Inf(-1)}, 5, r2.Vec{X: 0, Y: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampSpeed(tt.in, tt.max); got != tt.want {
				t.Errorf("ClampSpeed(%v, %v) = %v, want %v", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestClampSpeed_NaNPassesThrough(t *testing.T) {
	got := ClampSpeed(r2.Vec{X: math.NaN(), Y: 1}, 5)
	if !math.IsNaN(got.X) || got.Y != 1 {
		t.Errorf("ClampSpeed(NaN) = %v, want NaN kept", got)
	}
}

// frozenCheck fails if the accelerator ever sees a half-updated population.
type frozenCheck struct {
	t        *testing.T
	expected dynamo.Population
}

func (f *frozenCheck) Accelerate(bodies dynamo.Population, t float64, acc []r2.Vec) {
	for i := range bodies {
		if bodies[i] != f.expected[i] {
			f.t.Fatalf("body %d mutated before all accelerations were computed", i)
		}
		acc[i] = r2.Scale(-1, bodies[i].Pos)
	}
}

func TestSemiImplicit_SimultaneousUpdate(t *testing.T) {
	bodies := dynamo.Population{
		{Pos: r2.Vec{X: 1}}, {Pos: r2.Vec{Y: 1}}, {Pos: r2.Vec{X: -1, Y: -1}},
	}
	check := &frozenCheck{t: t, expected: bodies.Clone()}
	NewSemiImplicit(0).Step(check, bodies, make([]r2.Vec, len(bodies)), 0, 0.1)
}

func TestHarmonicAccuracy(t *testing.T) {
	tests := []struct {
		integ dynamo.Integrator
		tol   float64
	}{
		{NewSemiImplicit(0), 1e-2},
		{NewLeapfrog(0), 1e-4},
		{NewRK4(0), 1e-8},
	}

	dt := 0.01
	steps := 100
	for _, tt := range tests {
		t.Run(tt.integ.Name(), func(t *testing.T) {
			bodies := dynamo.Population{{Pos: r2.Vec{X: 1}}}
			acc := make([]r2.Vec, 1)
			for i := 0; i < steps; i++ {
				tt.integ.Step(spring{}, bodies, acc, float64(i)*dt, dt)
			}

			wantX := math.Cos(float64(steps) * dt)
			wantV := -math.Sin(float64(steps) * dt)
			if math.Abs(bodies[0].Pos.X-wantX) > tt.tol {
				t.Errorf("position %.8f, want %.8f", bodies[0].Pos.X, wantX)
			}
			if math.Abs(bodies[0].Vel.X-wantV) > tt.tol {
				t.Errorf("velocity %.8f, want %.8f", bodies[0].Vel.X, wantV)
			}
		})
	}
}

func TestSymplecticEnergyBounded(t *testing.T) {
	for _, integ := range []dynamo.Integrator{NewSemiImplicit(0), NewLeapfrog(0)} {
		t.Run(integ.Name(), func(t *testing.T) {
			bodies := dynamo.Population{{Pos: r2.Vec{X: 1}, Vel: r2.Vec{Y: 0.5}}}
			acc := make([]r2.Vec, 1)
			energy := func() float64 {
				b := bodies[0]
				return 0.5*r2.Norm2(b.Vel) + 0.5*r2.Norm2(b.Pos)
			}
			e0 := energy()
			for i := 0; i < 100000; i++ {
				integ.Step(spring{}, bodies, acc, 0, 0.05)
			}
			if drift := math.Abs(energy()-e0) / e0; drift > 0.05 {
				t.Errorf("energy drift %.4f after 1e5 steps", drift)
			}
		})
	}
}
