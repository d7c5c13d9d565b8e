// Package physics provides the force models for both particle modes.
//
// The package is split into pure leaf functions and the two mode systems
// that assemble them:
//
//   - [ForceLaw]: radial acceleration magnitude (inverse-square or κ-boosted)
//   - [Perturbation]: rotating multipole modulation of a force magnitude
//   - [Flock]: pairwise repulsion, attraction and alignment for ~100 bodies
//   - [Field]: closed-form central force for ~10⁵ bodies
//   - [Predator]: transient point repulsor with a tick-counted lifetime
//
// Both systems implement [dynamo.Accelerator]; [Field] also implements
// [dynamo.Hamiltonian] so energy drift can be monitored:
//
//	sys := physics.NewField(law, perturb, params)
//	if h, ok := dynamo.Accelerator(sys).(dynamo.Hamiltonian); ok {
//	    energy := h.Energy(bodies)
//	}
package physics
