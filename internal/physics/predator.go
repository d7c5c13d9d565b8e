package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// PredatorParams configure the transient point repulsor.
type PredatorParams struct {
	Radius   float64 `yaml:"radius"`
	Strength float64 `yaml:"strength"`
	Lifetime float64 `yaml:"lifetime"` // simulated seconds
}

// LifetimeTicks converts the lifetime to a whole number of ticks at dt.
func (p PredatorParams) LifetimeTicks(dt float64) int {
	if dt <= 0 || p.Lifetime <= 0 {
		return 0
	}
	return int(math.Ceil(p.Lifetime/dt - 1e-9))
}

// Predator is a short-lived repulsor. Its age advances once per tick, never
// by wall-clock time.
type Predator struct {
	Pos      r2.Vec
	Age      int
	Lifetime int
}

func NewPredator(pos r2.Vec, lifetimeTicks int) *Predator {
	return &Predator{Pos: pos, Lifetime: lifetimeTicks}
}

func (p *Predator) Active() bool {
	return p != nil && p.Age < p.Lifetime
}

// Advance ages the predator by one tick and reports whether it is still alive.
func (p *Predator) Advance() bool {
	if p == nil {
		return false
	}
	p.Age++
	return p.Active()
}

// Remaining returns the number of ticks left before expiry.
func (p *Predator) Remaining() int {
	if !p.Active() {
		return 0
	}
	return p.Lifetime - p.Age
}

// kick returns the repulsive acceleration on a body at pos: strength·(R − r)
// directed away from the source, zero outside R or at the exact source point.
func (p *Predator) kick(pos r2.Vec, params PredatorParams) r2.Vec {
	d := r2.Sub(pos, p.Pos)
	r := r2.Norm(d)
	if r >= params.Radius || r == 0 {
		return r2.Vec{}
	}
	return r2.Scale(params.Strength*(params.Radius-r)/r, d)
}
