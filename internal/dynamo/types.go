package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Body is a point body. Bodies are stored by value in a Population.
type Body struct {
	Pos r2.Vec
	Vel r2.Vec
}

// Radius returns the distance of the body from the domain center.
func (b Body) Radius() float64 { return r2.Norm(b.Pos) }

// Speed returns the magnitude of the body's velocity.
func (b Body) Speed() float64 { return r2.Norm(b.Vel) }

// Population is the arena of bodies for one simulation generation.
// Its length is fixed for the lifetime of a run.
type Population []Body

func (p Population) Clone() Population {
	c := make(Population, len(p))
	copy(c, p)
	return c
}

func (p Population) IsValid() bool {
	for _, b := range p {
		if !finite(b.Pos.X) || !finite(b.Pos.Y) || !finite(b.Vel.X) || !finite(b.Vel.Y) {
			return false
		}
	}
	return true
}

// MeanRadius is the average distance from the domain center.
func (p Population) MeanRadius() float64 {
	if len(p) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range p {
		sum += b.Radius()
	}
	return sum / float64(len(p))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clock is monotonically increasing simulated time advanced by a fixed Dt.
type Clock struct {
	Tick uint64
	Time float64
	Dt   float64
}

func NewClock(dt float64) Clock {
	return Clock{Dt: dt}
}

// Advance moves the clock forward by exactly one timestep.
func (c *Clock) Advance() {
	c.Tick++
	c.Time = float64(c.Tick) * c.Dt
}

func (c *Clock) Reset() {
	c.Tick = 0
	c.Time = 0
}

// Accelerator computes the acceleration of every body from the tick-start
// state. Implementations must not mutate bodies; acc has len(bodies) entries
// and is fully overwritten.
type Accelerator interface {
	Accelerate(bodies Population, t float64, acc []r2.Vec)
}

// Hamiltonian is implemented by modes with a well-defined potential energy.
type Hamiltonian interface {
	Energy(bodies Population) float64
}

// Integrator advances bodies in place by one fixed timestep. acc is scratch
// space of len(bodies) owned by the caller.
type Integrator interface {
	Name() string
	Step(sys Accelerator, bodies Population, acc []r2.Vec, t, dt float64)
}

type Metric interface {
	Name() string
	Observe(bodies Population, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(bodies Population, t float64)
}

// SystemAware is implemented by metrics that need the system they observe,
// for example to evaluate its potential energy. The engine calls Bind
// whenever the system is rebuilt.
type SystemAware interface {
	Bind(sys Accelerator)
}
