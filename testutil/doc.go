// Package testutil provides testing utilities for corrmin.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded RNG for random cells, matrices and rotations, and a
// brute-force ranking to check searches against.
//
// # Random Inputs
//
//	rng := testutil.NewRNG(seed)
//	cell := rng.Cell(3, 12)     // triclinic cell, edges in [3, 12)
//	m := rng.Matrix(2)          // nonsingular, entries in [-2, 2]
//	r := rng.Rotation()         // proper rotation
//
// # Ground Truth
//
//	want, _ := testutil.ExactTopK(ref, def, refs, defs, k)
package testutil
