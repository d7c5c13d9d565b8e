// Package dynamo provides the core primitives shared by every particle mode.
//
// The package defines the value types and small interfaces the engine is
// assembled from:
//
//   - [Body]: a point body with position and velocity
//   - [Population]: contiguous arena of bodies addressed by index
//   - [Clock]: fixed-timestep simulated time
//   - [Accelerator]: computes per-body accelerations from tick-start state
//   - [Integrator]: advances a population by one fixed timestep
//   - [Metric]: per-tick population observable
//
// # Example
//
//	sys := physics.NewField(cfg.Force, cfg.Perturbation, cfg.Field)
//	integ := integrators.NewSemiImplicit(cfg.MaxSpeed)
//	integ.Step(sys, bodies, acc, clock.Time, clock.Dt)
//	clock.Advance()
//
// # Thread Safety
//
// Populations are NOT thread-safe. An engine owns exactly one population and
// mutates it from a single goroutine; readers receive clones.
package dynamo
