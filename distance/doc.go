// Package distance scores how far a pair of correspondence matrices is from
// a pure stretch-free mapping between two lattices.
//
// For reference basis E_ref with correspondence P_ref and deformed basis
// E_def with correspondence P_def the deformation gradient is
//
//	F = (E_def·P_def)·(E_ref·P_ref)⁻¹
//
// The right Cauchy-Green tensor C = FᵀF is diagonalized as C = Σ λᵢ vᵢvᵢᵀ,
// which gives the right stretch tensor U = Σ √λᵢ vᵢvᵢᵀ. The reported distance
// is the squared Frobenius norm of U⁻² − I, with U⁻² = Σ λᵢ⁻¹ vᵢvᵢᵀ. It is
// zero exactly when the mapping is a rigid rotation and does not change when
// the deformed lattice is rotated.
//
// Linear algebra uses gonum.org/v1/gonum/mat. An Engine keeps its gonum
// workspaces between calls, so a search loop should reuse one Engine.
package distance
