package physics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestPerturbation_NeverNegative(t *testing.T) {
	for _, eps := range []float64{0, 0.1, 0.5, MaxAmplitude, 0.999} {
		p := Perturbation{Amplitude: eps, Omega: 0.7, Order: 2}
		for step := 0; step < 64; step++ {
			theta := float64(step) * 2 * math.Pi / 64
			pos := r2.Vec{X: math.Cos(theta), Y: math.Sin(theta)}
			for _, tm := range []float64{0, 0.3, 5, 1e4} {
				if got := p.Apply(1, pos, tm); got < 0 {
					t.Fatalf("eps=%v theta=%v t=%v: got %v", eps, theta, tm, got)
				}
			}
		}
	}
}

func TestPerturbation_Extremes(t *testing.T) {
	p := Perturbation{Amplitude: 0.2, Omega: 1, Order: 2}

	// pattern aligned with the body: maximum boost
	if got := p.Apply(10, r2.Vec{X: 1}, 0); math.Abs(got-12) > 1e-12 {
		t.Errorf("aligned = %v, want 12", got)
	}
	// quarter turn for m=2 is the trough
	if got := p.Apply(10, r2.Vec{Y: 1}, 0); math.Abs(got-8) > 1e-12 {
		t.Errorf("trough = %v, want 8", got)
	}
	// pattern rotates: at t = π/2 the crest is on the y axis
	if got := p.Apply(10, r2.Vec{Y: 1}, math.Pi/2); math.Abs(got-12) > 1e-12 {
		t.Errorf("rotated crest = %v, want 12", got)
	}
}

func TestPerturbation_Defaults(t *testing.T) {
	zero := Perturbation{}
	if got := zero.Apply(3, r2.Vec{X: 1, Y: 2}, 4); got != 3 {
		t.Errorf("zero amplitude modified magnitude: %v", got)
	}

	implicit := Perturbation{Amplitude: 0.5}
	explicit := Perturbation{Amplitude: 0.5, Order: DefaultOrder}
	pos := r2.Vec{X: 0.3, Y: 0.8}
	if implicit.Apply(1, pos, 0) != explicit.Apply(1, pos, 0) {
		t.Error("order 0 should default to m=2")
	}
}

func TestPerturbation_PatternAngle(t *testing.T) {
	p := Perturbation{Omega: 1, Order: 2}
	if got := p.PatternAngle(math.Pi + 0.5); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("PatternAngle wrapped = %v, want 0.5", got)
	}
	p.Omega = -1
	if got := p.PatternAngle(0.5); got < 0 || got >= math.Pi {
		t.Errorf("PatternAngle negative omega = %v", got)
	}
}
