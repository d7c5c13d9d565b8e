package integrators

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/kappasim/internal/dynamo"
	"github.com/san-kum/kappasim/internal/physics"
)

func benchField(b *testing.B, integ dynamo.Integrator, n int) {
	law := physics.ForceLaw{Kind: physics.LawKappa, GM: 1, Kappa0: 0.3, KappaScale: 4}
	params := physics.FieldParams{InnerRadius: 0.5, OuterRadius: 10, Softening: 0.05}
	sys := physics.NewField(law, physics.Perturbation{Amplitude: 0.05, Omega: 0.3, Order: 2}, params)
	bodies := physics.SeedField(rand.New(rand.NewSource(1)), n, law, params)
	acc := make([]r2.Vec, n)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(sys, bodies, acc, float64(i)*0.01, 0.01)
	}
}

func BenchmarkSemiImplicitField100k(b *testing.B) { benchField(b, NewSemiImplicit(5), 100000) }
func BenchmarkLeapfrogField100k(b *testing.B)     { benchField(b, NewLeapfrog(5), 100000) }
func BenchmarkRK4Field100k(b *testing.B)          { benchField(b, NewRK4(5), 100000) }

func BenchmarkSemiImplicitFlock(b *testing.B) {
	law := physics.ForceLaw{Kind: physics.LawNewton, GM: 2.5e4}
	params := physics.FlockParams{
		HardCore: 10, Cutoff: 150, AlignRadius: 50, AlignStrength: 30,
		RepulsionGain: 2000, AttractionGain: 1, SoftBoundary: 250, ConfineGain: 0.05,
		SpawnRadius: 150, InitialSpeed: 40,
	}
	sys := physics.NewFlock(law, params, physics.PredatorParams{})
	bodies := physics.SeedFlock(rand.New(rand.NewSource(1)), 120, params)
	acc := make([]r2.Vec, len(bodies))
	integ := NewSemiImplicit(180)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(sys, bodies, acc, float64(i)/60, 1.0/60)
	}
}
