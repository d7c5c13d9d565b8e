package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/san-kum/kappasim/internal/dynamo"
)

const (
	// DefaultExpLimit bounds |κ·r| before exponentiation. e^18 ≈ 6.6e7 keeps
	// the boosted force well inside float64 range.
	DefaultExpLimit = 18.0

	// MinSeparation is the floor substituted for near-zero separations.
	MinSeparation = 1e-3

	// MaxGM bounds the central mass parameter.
	MaxGM = 1e12

	// The potential integral runs over unit-width panels in t = ln(s/r).
	potentialPanels = 40
	potentialNodes  = 8
)

// Gauss-Legendre nodes and weights on [0, 1].
var legendreX, legendreW = legendreUnit(potentialNodes)

func legendreUnit(n int) (x, w []float64) {
	x = make([]float64, n)
	w = make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, 0, 1)
	return x, w
}

// Law selects the force-law variant.
type Law int

const (
	LawNewton Law = iota
	LawKappa
)

var lawNames = map[Law]string{
	LawNewton: "newton",
	LawKappa:  "kappa",
}

func (l Law) String() string {
	if name, ok := lawNames[l]; ok {
		return name
	}
	return fmt.Sprintf("law(%d)", int(l))
}

func (l Law) Valid() bool {
	_, ok := lawNames[l]
	return ok
}

func ParseLaw(s string) (Law, error) {
	for l, name := range lawNames {
		if name == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownLaw, s)
}

func Laws() []Law { return []Law{LawNewton, LawKappa} }

func (l Law) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", dynamo.ErrUnknownLaw, int(l))
	}
	return []byte(l.String()), nil
}

func (l *Law) UnmarshalText(text []byte) error {
	parsed, err := ParseLaw(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ForceLaw maps a separation to a radial acceleration magnitude.
//
// The κ variant multiplies the inverse-square baseline by
// exp(clamp(κ_eff(r)·r, ±ExpLimit)) where
//
//	κ_eff(r) = κ₀ · (ρ/ρ₀)^a / (1 + (r/ℓ)²)
//
// A non-positive KappaScale ℓ disables the saturating term.
type ForceLaw struct {
	Kind            Law     `yaml:"law"`
	GM              float64 `yaml:"gm"`
	Kappa0          float64 `yaml:"kappa0"`
	KappaScale      float64 `yaml:"kappa_scale"`
	DensityRatio    float64 `yaml:"density_ratio"`
	DensityExponent float64 `yaml:"density_exponent"`
	ExpLimit        float64 `yaml:"exp_limit"`
}

// Baseline returns GM/r². It returns 0 for r <= 0.
func (f ForceLaw) Baseline(r float64) float64 {
	if r <= 0 {
		return 0
	}
	return f.GM / (r * r)
}

// KappaEffective returns the local κ at separation r.
func (f ForceLaw) KappaEffective(r float64) float64 {
	k := f.Kappa0 * f.densityFactor()
	if f.KappaScale > 0 {
		q := r / f.KappaScale
		k /= 1 + q*q
	}
	return k
}

// Boost returns the multiplicative factor applied to the baseline. It is 1
// for the Newtonian variant and lies in [e^-limit, e^limit] otherwise.
func (f ForceLaw) Boost(r float64) float64 {
	if f.Kind != LawKappa {
		return 1
	}
	return math.Exp(f.exponent(r))
}

// Magnitude returns the non-negative acceleration magnitude at separation r.
// Callers floor r before calling; r <= 0 yields no force.
func (f ForceLaw) Magnitude(r float64) float64 {
	g := f.Baseline(r)
	if g == 0 || f.Kind != LawKappa {
		return g
	}
	return g * math.Exp(f.exponent(r))
}

// Potential returns Φ(r) = -∫_r^∞ Magnitude(s) ds, so -dΦ/dr is exactly the
// force. With s = r·e^t the κ variant becomes
//
//	Φ(r) = -(GM/r)·(1 + ∫_0^∞ (boost(r·e^t) - 1)·e^-t dt)
//
// evaluated by composite Gauss-Legendre quadrature. Past the last panel the
// boost is taken as constant.
func (f ForceLaw) Potential(r float64) float64 {
	if r <= 0 {
		return 0
	}
	if f.Kind != LawKappa {
		return -f.GM / r
	}
	sum := 0.0
	for p := 0; p < potentialPanels; p++ {
		for i, x := range legendreX {
			t := float64(p) + x
			sum += legendreW[i] * math.Expm1(f.exponent(r*math.Exp(t))) * math.Exp(-t)
		}
	}
	end := float64(potentialPanels)
	sum += math.Expm1(f.exponent(r*math.Exp(end))) * math.Exp(-end)
	return -f.GM / r * (1 + sum)
}

// PeakMagnitude is an upper bound of Magnitude for separations >= floor.
func (f ForceLaw) PeakMagnitude(floor float64) float64 {
	if floor <= 0 {
		floor = MinSeparation
	}
	g := f.GM / (floor * floor)
	if f.Kind == LawKappa {
		g *= math.Exp(f.limit())
	}
	return g
}

// CircularSpeed returns sqrt(r·g(r)), the speed of a circular orbit at r.
func (f ForceLaw) CircularSpeed(r float64) float64 {
	if r <= 0 {
		return 0
	}
	return math.Sqrt(r * f.Magnitude(r))
}

func (f ForceLaw) exponent(r float64) float64 {
	limit := f.limit()
	x := f.KappaEffective(r) * r
	switch {
	case math.IsNaN(x):
		return 0
	case x > limit:
		return limit
	case x < -limit:
		return -limit
	}
	return x
}

func (f ForceLaw) limit() float64 {
	if f.ExpLimit > 0 {
		return f.ExpLimit
	}
	return DefaultExpLimit
}

func (f ForceLaw) densityFactor() float64 {
	if f.DensityRatio <= 0 || f.DensityExponent == 0 || f.DensityRatio == 1 {
		return 1
	}
	return math.Pow(f.DensityRatio, f.DensityExponent)
}
