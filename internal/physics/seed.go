package physics

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/kappasim/internal/dynamo"
)

// SeedFlock places n bodies uniformly by area inside the spawn disk with
// random headings at the configured initial speed.
func SeedFlock(rng *rand.Rand, n int, p FlockParams) dynamo.Population {
	pop := make(dynamo.Population, n)
	for i := range pop {
		r := p.SpawnRadius * math.Sqrt(rng.Float64())
		theta := 2 * math.Pi * rng.Float64()
		heading := 2 * math.Pi * rng.Float64()
		pop[i] = dynamo.Body{
			Pos: r2.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)},
			Vel: r2.Vec{X: p.InitialSpeed * math.Cos(heading), Y: p.InitialSpeed * math.Sin(heading)},
		}
	}
	return pop
}

// SeedField places n bodies uniformly by area on the annulus
// [InnerRadius, OuterRadius] moving counter-clockwise at the circular speed of
// the active force law at their radius.
func SeedField(rng *rand.Rand, n int, law ForceLaw, p FieldParams) dynamo.Population {
	pop := make(dynamo.Population, n)
	in2 := p.InnerRadius * p.InnerRadius
	out2 := p.OuterRadius * p.OuterRadius
	f := Field{Law: law, Params: p}
	for i := range pop {
		r := math.Sqrt(in2 + rng.Float64()*(out2-in2))
		theta := 2 * math.Pi * rng.Float64()
		sin, cos := math.Sincos(theta)
		v := law.CircularSpeed(f.floor(r))
		pop[i] = dynamo.Body{
			Pos: r2.Vec{X: r * cos, Y: r * sin},
			Vel: r2.Vec{X: -v * sin, Y: v * cos},
		}
	}
	return pop
}
