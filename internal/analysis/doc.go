// Package analysis provides offline tools for studying population dynamics.
//
//   - [PowerSpectrum] and [DominantFrequency]: spectrum of a metric trace,
//     for example the breathing frequency of the mean radius
//   - [Sweep]: one-parameter sweep recording the settled population state
//   - [RadialPhase]: (r, v_r) phase-space scatter of a population
//
// # Breathing Mode
//
// A disk seeded slightly off equilibrium oscillates radially. The dominant
// frequency of its mean-radius trace is the breathing frequency:
//
//	f, _ := analysis.DominantFrequency(res.MeanRadius, traceDt)
package analysis
