package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/kappasim/internal/dynamo"
)

// tunables are the live parameters exposed to sweeps, grid search and the
// terminal UI. None of them requires a reseed.
var tunables = map[string]struct {
	get func(*Simulation) float64
	set func(*Simulation, float64)
}{
	"gm":              {func(c *Simulation) float64 { return c.Force.GM }, func(c *Simulation, v float64) { c.Force.GM = v }},
	"kappa0":          {func(c *Simulation) float64 { return c.Force.Kappa0 }, func(c *Simulation, v float64) { c.Force.Kappa0 = v }},
	"kappa_scale":     {func(c *Simulation) float64 { return c.Force.KappaScale }, func(c *Simulation, v float64) { c.Force.KappaScale = v }},
	"density_ratio":   {func(c *Simulation) float64 { return c.Force.DensityRatio }, func(c *Simulation, v float64) { c.Force.DensityRatio = v }},
	"amplitude":       {func(c *Simulation) float64 { return c.Perturbation.Amplitude }, func(c *Simulation, v float64) { c.Perturbation.Amplitude = v }},
	"omega":           {func(c *Simulation) float64 { return c.Perturbation.Omega }, func(c *Simulation, v float64) { c.Perturbation.Omega = v }},
	"align_strength":  {func(c *Simulation) float64 { return c.Flock.AlignStrength }, func(c *Simulation, v float64) { c.Flock.AlignStrength = v }},
	"attraction_gain": {func(c *Simulation) float64 { return c.Flock.AttractionGain }, func(c *Simulation, v float64) { c.Flock.AttractionGain = v }},
	"confine_gain":    {func(c *Simulation) float64 { return c.Flock.ConfineGain }, func(c *Simulation, v float64) { c.Flock.ConfineGain = v }},
	"max_speed":       {func(c *Simulation) float64 { return c.MaxSpeed }, func(c *Simulation, v float64) { c.MaxSpeed = v }},
}

// ParamNames lists the tunable parameters in sorted order.
func ParamNames() []string {
	names := make([]string, 0, len(tunables))
	for name := range tunables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c Simulation) Param(name string) (float64, error) {
	p, ok := tunables[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown parameter %q", dynamo.ErrParameterBounds, name)
	}
	return p.get(&c), nil
}

// WithParam returns a copy of c with the named parameter set to v. The
// result is validated; on error c is returned unchanged.
func (c Simulation) WithParam(name string, v float64) (Simulation, error) {
	p, ok := tunables[name]
	if !ok {
		return c, fmt.Errorf("%w: unknown parameter %q", dynamo.ErrParameterBounds, name)
	}
	next := c
	p.set(&next, v)
	if err := next.Validate(); err != nil {
		return c, err
	}
	return next, nil
}
