package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/kappasim/internal/dynamo"
)

// KineticEnergy is the time-averaged specific kinetic energy per body.
type KineticEnergy struct {
	name    string
	sum     float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(bodies dynamo.Population, t float64) {
	if len(bodies) == 0 {
		return
	}
	k.sum += kinetic(bodies) / float64(len(bodies))
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.sum / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.sum = 0
	k.samples = 0
}

func kinetic(bodies dynamo.Population) float64 {
	e := 0.0
	for _, b := range bodies {
		e += 0.5 * r2.Norm2(b.Vel)
	}
	return e
}

// EnergyDrift is the largest relative deviation of total energy from its
// first observed value. It stays zero for systems without a potential.
type EnergyDrift struct {
	name     string
	ham      dynamo.Hamiltonian
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Bind(sys dynamo.Accelerator) {
	e.ham, _ = sys.(dynamo.Hamiltonian)
}

func (e *EnergyDrift) Observe(bodies dynamo.Population, t float64) {
	if e.ham == nil {
		return
	}
	energy := e.ham.Energy(bodies)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
