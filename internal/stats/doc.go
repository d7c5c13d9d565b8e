// Package stats derives periodic aggregates from a population: a rotation
// curve of mean tangential speed per radial bin and the counts of bodies
// inside the core radius and beyond the escape radius.
//
// A [Snapshot] is rebuilt from scratch at every sample and is never updated
// incrementally, so it always describes exactly one population generation.
package stats
