package physics

import "math"

// potentialStep is the spacing of the potential table in ln(r).
const potentialStep = 0.01

// potentialTable interpolates a force law's potential on a logarithmic grid.
// Each node stores Φ and dΦ/dln r = r·Magnitude(r), and lookups use cubic
// Hermite interpolation, so the slope between nodes stays consistent with
// the force.
type potentialTable struct {
	law        ForceLaw
	lnMin      float64
	lnMax      float64
	phi, slope []float64
}

func newPotentialTable(law ForceLaw, rMin, rMax float64) *potentialTable {
	t := &potentialTable{law: law, lnMin: math.Log(rMin)}
	n := int(math.Ceil((math.Log(rMax)-t.lnMin)/potentialStep)) + 1
	if n < 2 {
		n = 2
	}
	t.lnMax = t.lnMin + float64(n-1)*potentialStep
	t.phi = make([]float64, n)
	t.slope = make([]float64, n)
	for i := range t.phi {
		r := math.Exp(t.lnMin + float64(i)*potentialStep)
		t.phi[i] = law.Potential(r)
		t.slope[i] = r * law.Magnitude(r)
	}
	return t
}

// At returns Φ(r). Radii outside the table fall back to direct quadrature.
func (t *potentialTable) At(r float64) float64 {
	if r <= 0 {
		return 0
	}
	x := math.Log(r)
	if !(x >= t.lnMin && x < t.lnMax) {
		return t.law.Potential(r)
	}
	pos := (x - t.lnMin) / potentialStep
	i := int(pos)
	if i >= len(t.phi)-1 {
		i = len(t.phi) - 2
	}
	u := pos - float64(i)

	u2 := u * u
	u3 := u2 * u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2
	return h00*t.phi[i] + h10*potentialStep*t.slope[i] + h01*t.phi[i+1] + h11*potentialStep*t.slope[i+1]
}
