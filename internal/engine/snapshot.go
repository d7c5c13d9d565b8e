package engine

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/kappasim/internal/dynamo"
	"github.com/san-kum/kappasim/internal/physics"
	"github.com/san-kum/kappasim/internal/stats"
)

// PredatorView describes the active repulsor for drawing.
type PredatorView struct {
	Pos       r2.Vec
	Radius    float64
	Remaining int
}

// Snapshot is a read-only copy of the engine state at a tick boundary.
// Bodies is owned by the snapshot; mutating it has no effect on the engine.
type Snapshot struct {
	Mode       physics.Mode
	Law        physics.Law
	State      State
	Generation uint64
	Clock      dynamo.Clock

	Bodies   dynamo.Population
	Stats    stats.Snapshot
	HasStats bool

	Predator     *PredatorView
	PatternAngle float64
	Metrics      map[string]float64
}

// Snapshot returns a fresh copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	var s Snapshot
	e.SnapshotInto(&s)
	return s
}

// SnapshotInto fills dst, reusing the capacity of dst.Bodies and dst.Metrics.
// Renderers call it once per frame to avoid reallocating large populations.
func (e *Engine) SnapshotInto(dst *Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	dst.Mode = e.cfg.Mode
	dst.Law = e.cfg.Force.Kind
	dst.State = e.state
	dst.Generation = e.generation
	dst.Clock = e.clock

	if cap(dst.Bodies) < len(e.bodies) {
		dst.Bodies = make(dynamo.Population, len(e.bodies))
	}
	dst.Bodies = dst.Bodies[:len(e.bodies)]
	copy(dst.Bodies, e.bodies)

	dst.Stats, dst.HasStats = e.sampler.Latest()

	dst.Predator = nil
	if e.predator.Active() {
		dst.Predator = &PredatorView{
			Pos:       e.predator.Pos,
			Radius:    e.cfg.Predator.Radius,
			Remaining: e.predator.Remaining(),
		}
	}

	dst.PatternAngle = 0
	if e.cfg.Mode == physics.ModeField {
		dst.PatternAngle = e.cfg.Perturbation.PatternAngle(e.clock.Time)
	}

	if dst.Metrics == nil {
		dst.Metrics = make(map[string]float64, len(e.metrics))
	}
	for k := range dst.Metrics {
		delete(dst.Metrics, k)
	}
	for _, m := range e.metrics {
		dst.Metrics[m.Name()] = m.Value()
	}
}
