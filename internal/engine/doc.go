// Package engine runs one simulation instance.
//
// An [Engine] owns a population, its clock, the active particle system and
// the statistics sampler. It is a two-state machine:
//
//	Seeded  --Tick-->  Running
//	Running --Apply (initial conditions changed) / Reseed-->  Seeded
//
// Every tick computes the acceleration of every body from the tick-start
// state, integrates, advances the clock and the predator age, and samples
// statistics on the configured cadence. Configuration changes are applied
// only between ticks.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Physics runs under the engine
// lock, so a renderer calling [Engine.Snapshot] always observes a whole
// tick, never a partial one.
package engine
