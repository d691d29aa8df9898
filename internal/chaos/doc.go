// Package chaos provides the deterministic sequence generators used by the
// image cipher.
//
// The package includes three sources of pseudorandom material:
//
//   - [Logistic]: 1-D logistic map, drives pixel permutation
//   - [Henon3D]: coupled 3-state Hénon map, seeds the keystream
//   - [Keystream]: SHA-256 hash chain emitting one byte per iteration
//
// # Reproducibility
//
// Identical parameters and lengths always produce bit-identical output,
// across runs and across architectures. Products are rounded explicitly
// before they are added so the compiler never fuses them:
//
//	seq := chaos.NewLogistic().Sequence(0.6, 16)
//	ks := chaos.HenonKeystream(chaos.NewHenon3D(), 0.1, 0.2, 0.3, 1024)
//
// # Chaotic Regime
//
// Generators do not validate their parameters. Use [LogisticLyapunov] or
// [LogisticBifurcation] to check that a parameter choice is chaotic:
//
//	if chaos.LogisticLyapunov(3.99, 0.6, 100, 1000) > 0 {
//	    // r is in the chaotic regime
//	}
package chaos
