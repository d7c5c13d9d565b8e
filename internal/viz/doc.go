// Package viz renders a running engine in the terminal.
//
// Bodies are drawn on a braille [Canvas] through a [Viewport] that maps world
// coordinates to sub-pixels; resizing the terminal changes only the viewport.
// The side panel shows the region counts, the observed rotation curve against
// the force law's expectation and the live tunables.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	.     - Single tick while paused
//	R     - Reseed the population
//	N     - Toggle newton / kappa
//	P     - Next preset
//	Tab   - Select parameter, Up/Down to tune it by 5%
//	Click - Place the predator (flock mode)
//	G     - Toggle GIF recording
//	T     - Cycle color themes
//	?     - Help overlay
//
// [App] wraps [Model] with a preset picker.
package viz
