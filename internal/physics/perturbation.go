package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// MaxAmplitude keeps 1 - ε strictly positive so the modulation never
	// reverses the force.
	MaxAmplitude = 0.95

	DefaultOrder = 2
)

// Perturbation is a rotating m-fold density wave applied multiplicatively:
//
//	g' = g · (1 + ε·cos(m·(θ − ω·t)))
type Perturbation struct {
	Amplitude float64 `yaml:"amplitude"`
	Omega     float64 `yaml:"omega"`
	Order     int     `yaml:"order"`
}

func (p Perturbation) Apply(g float64, pos r2.Vec, t float64) float64 {
	if p.Amplitude == 0 || g == 0 {
		return g
	}
	theta := math.Atan2(pos.Y, pos.X)
	return g * (1 + p.Amplitude*math.Cos(float64(p.order())*(theta-p.Omega*t)))
}

// PatternAngle returns the orientation of the pattern at time t, wrapped to
// [0, 2π/m).
func (p Perturbation) PatternAngle(t float64) float64 {
	period := 2 * math.Pi / float64(p.order())
	a := math.Mod(p.Omega*t, period)
	if a < 0 {
		a += period
	}
	return a
}

func (p Perturbation) order() int {
	if p.Order <= 0 {
		return DefaultOrder
	}
	return p.Order
}
