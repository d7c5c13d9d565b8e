package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/kappasim/internal/dynamo"
	"github.com/san-kum/kappasim/internal/integrators"
	"github.com/san-kum/kappasim/internal/physics"
)

type validator struct {
	errs []error
}

func (v *validator) fail(field string, value float64, err error) {
	v.errs = append(v.errs, &dynamo.FieldError{Field: field, Value: value, Wrapped: err})
}

func (v *validator) finite(field string, value float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		v.fail(field, value, dynamo.ErrNonFinite)
		return false
	}
	return true
}

// atLeast checks value >= min.
func (v *validator) atLeast(field string, value, min float64) {
	if v.finite(field, value) && value < min {
		v.fail(field, value, fmt.Errorf("%w: must be >= %g", dynamo.ErrParameterBounds, min))
	}
}

// above checks value > min.
func (v *validator) above(field string, value, min float64) {
	if v.finite(field, value) && value <= min {
		v.fail(field, value, fmt.Errorf("%w: must be > %g", dynamo.ErrParameterBounds, min))
	}
}

func (v *validator) within(field string, value, min, max float64) {
	if v.finite(field, value) && (value < min || value > max) {
		v.fail(field, value, fmt.Errorf("%w: must be in [%g, %g]", dynamo.ErrParameterBounds, min, max))
	}
}

// Validate checks every parameter and returns all violations joined under
// ErrInvalidConfig. Each violation is a *dynamo.FieldError.
func (c Simulation) Validate() error {
	var v validator

	if !c.Mode.Valid() {
		v.fail("mode", float64(c.Mode), dynamo.ErrUnknownMode)
	}
	if !c.Force.Kind.Valid() {
		v.fail("force.law", float64(c.Force.Kind), dynamo.ErrUnknownLaw)
	}
	if _, err := integrators.New(c.Integrator, 0); err != nil {
		v.errs = append(v.errs, err)
	}

	v.within("population", float64(c.Population), 1, MaxPopulation)
	v.above("dt", c.Dt, 0)
	v.above("max_speed", c.MaxSpeed, 0)
	v.within("steps_per_frame", float64(c.StepsPerFrame), 1, MaxStepsPerFrame)

	f := c.Force
	v.within("force.gm", f.GM, 0, physics.MaxGM)
	v.atLeast("force.kappa0", f.Kappa0, 0)
	v.atLeast("force.kappa_scale", f.KappaScale, 0)
	v.atLeast("force.density_ratio", f.DensityRatio, 0)
	v.finite("force.density_exponent", f.DensityExponent)
	v.within("force.exp_limit", f.ExpLimit, 0, MaxExpLimit)
	if peak := f.PeakMagnitude(c.forceFloor()); math.IsNaN(peak) || math.IsInf(peak, 0) || math.IsInf(peak*c.Dt, 0) {
		v.fail("force", peak, fmt.Errorf("%w: peak acceleration gm·e^exp_limit/floor² overflows", dynamo.ErrNonFinite))
	}

	p := c.Perturbation
	v.within("perturbation.amplitude", p.Amplitude, 0, physics.MaxAmplitude)
	v.finite("perturbation.omega", p.Omega)
	v.within("perturbation.order", float64(p.Order), 0, MaxOrder)

	fl := c.Flock
	v.above("flock.hard_core", fl.HardCore, 0)
	v.above("flock.cutoff", fl.Cutoff, fl.HardCore)
	v.atLeast("flock.align_radius", fl.AlignRadius, 0)
	v.atLeast("flock.align_strength", fl.AlignStrength, 0)
	v.atLeast("flock.repulsion_gain", fl.RepulsionGain, 0)
	v.atLeast("flock.attraction_gain", fl.AttractionGain, 0)
	v.above("flock.soft_boundary", fl.SoftBoundary, 0)
	v.atLeast("flock.confine_gain", fl.ConfineGain, 0)
	v.above("flock.spawn_radius", fl.SpawnRadius, 0)
	v.atLeast("flock.initial_speed", fl.InitialSpeed, 0)

	pr := c.Predator
	v.atLeast("predator.radius", pr.Radius, 0)
	v.atLeast("predator.strength", pr.Strength, 0)
	v.atLeast("predator.lifetime", pr.Lifetime, 0)

	fd := c.Field
	v.atLeast("field.inner_radius", fd.InnerRadius, 0)
	v.above("field.outer_radius", fd.OuterRadius, fd.InnerRadius)
	v.above("field.softening", fd.Softening, 0)

	s := c.Stats
	v.atLeast("stats.core_radius", s.CoreRadius, 0)
	v.above("stats.escape_radius", s.EscapeRadius, s.CoreRadius)
	v.above("stats.bin_radius", s.BinRadius, 0)
	v.within("stats.bins", float64(s.Bins), 1, MaxBins)
	v.atLeast("stats.interval", float64(s.Interval), 1)

	if len(v.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, errors.Join(v.errs...))
}

// forceFloor is the smallest separation at which the force law is evaluated
// in the configured mode.
func (c Simulation) forceFloor() float64 {
	floor := c.Flock.HardCore
	if c.Mode == physics.ModeField {
		floor = c.Field.Softening
	}
	return math.Max(floor, physics.MinSeparation)
}
