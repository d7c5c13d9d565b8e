package metrics

import (
	"github.com/san-kum/kappasim/internal/dynamo"
)

// AngularMomentum is the time-averaged specific angular momentum per body
// about the domain center. Positive values mean counter-clockwise rotation.
type AngularMomentum struct {
	name    string
	sum     float64
	samples int
}

func NewAngularMomentum() *AngularMomentum {
	return &AngularMomentum{name: "angular_momentum"}
}

func (a *AngularMomentum) Name() string { return a.name }

func (a *AngularMomentum) Observe(bodies dynamo.Population, t float64) {
	if len(bodies) == 0 {
		return
	}
	a.sum += Lz(bodies) / float64(len(bodies))
	a.samples++
}

func (a *AngularMomentum) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *AngularMomentum) Reset() {
	a.sum = 0
	a.samples = 0
}

// Lz returns the total z angular momentum Σ x·v_y − y·v_x.
func Lz(bodies dynamo.Population) float64 {
	l := 0.0
	for _, b := range bodies {
		l += b.Pos.X*b.Vel.Y - b.Pos.Y*b.Vel.X
	}
	return l
}
