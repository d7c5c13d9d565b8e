package integrators

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ClampSpeed rescales v to maxSpeed when it is faster, keeping its direction.
// A non-positive maxSpeed disables the clamp. An infinite component keeps
// only its sign; NaN is returned unchanged so the population check sees it.
func ClampSpeed(v r2.Vec, maxSpeed float64) r2.Vec {
	if maxSpeed <= 0 || math.IsNaN(v.X) || math.IsNaN(v.Y) {
		return v
	}
	if math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
		u := r2.Vec{X: infSign(v.X), Y: infSign(v.Y)}
		return r2.Scale(maxSpeed/r2.Norm(u), u)
	}
	s2 := r2.Norm2(v)
	if s2 <= maxSpeed*maxSpeed {
		return v
	}
	return r2.Scale(maxSpeed/r2.Norm(v), v)
}

func infSign(x float64) float64 {
	switch {
	case math.IsInf(x, 1):
		return 1
	case math.IsInf(x, -1):
		return -1
	}
	return 0
}
