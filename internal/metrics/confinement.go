package metrics

import (
	"github.com/san-kum/kappasim/internal/dynamo"
)

// Confinement is the fraction of observed ticks whose mean radius stayed
// within bound.
type Confinement struct {
	name       string
	bound      float64
	violations int
	samples    int
}

func NewConfinement(bound float64) *Confinement {
	return &Confinement{name: "confinement", bound: bound}
}

func (c *Confinement) Name() string { return c.name }

func (c *Confinement) Observe(bodies dynamo.Population, t float64) {
	c.samples++
	if bodies.MeanRadius() > c.bound {
		c.violations++
	}
}

func (c *Confinement) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Confinement) Reset() {
	c.violations = 0
	c.samples = 0
}

// MeanRadius tracks the mean distance from center, reporting the latest
// value and the largest value seen.
type MeanRadius struct {
	name   string
	latest float64
	peak   float64
}

func NewMeanRadius() *MeanRadius {
	return &MeanRadius{name: "mean_radius"}
}

func (m *MeanRadius) Name() string { return m.name }

func (m *MeanRadius) Observe(bodies dynamo.Population, t float64) {
	m.latest = bodies.MeanRadius()
	if m.latest > m.peak {
		m.peak = m.latest
	}
}

func (m *MeanRadius) Value() float64 { return m.latest }

func (m *MeanRadius) Peak() float64 { return m.peak }

func (m *MeanRadius) Reset() {
	m.latest = 0
	m.peak = 0
}
