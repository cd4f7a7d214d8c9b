// Package model defines core types used throughout corrmin.
//
// # Matrix Types
//
//   - Matrix: 3×3 integer correspondence matrix (int8 entries, row-major)
//   - Result: one evaluated (reference, deformed) matrix pair with its distance
//     and stretch tensor
//
// # Determinants
//
// Correspondence matrices are bucketed by determinant. Buckets 1..MaxDeterminant
// hold enumerated matrices; bucket SentinelDeterminant holds only the identity
// and means "no relative transformation".
package model
