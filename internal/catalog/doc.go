// Package catalog builds and serves persistent catalogs of integer
// correspondence matrices.
//
// A catalog for enumeration bound b contains, for every determinant k in
// 1..8, every distinct 3×3 integer matrix with entries in [-b, b] whose
// determinant is k. Each determinant bucket is split into segments of at
// most Capacity matrices. A sentinel bucket with determinant 0 holds only
// the identity and stands for "leave this lattice as it is".
//
// # Generation
//
// Matrices are enumerated as a Cartesian product of row vectors. When the
// first two rows are parallel their cross product vanishes and no third row
// can give a nonzero determinant, so that whole subtree is skipped.
//
// Each bucket keeps a roaring64 bitmap of the matrix keys it has accepted so
// that a matrix is stored at most once per bucket. The determinant-1 bucket
// is seeded with the identity, which makes the identity the first candidate
// of that bucket and the winner of any tie against another determinant-1
// matrix.
//
// The manifest is written after every segment is stored. A catalog whose
// manifest is missing is treated as the residue of an interrupted run: its
// segments are deleted and the catalog is regenerated.
//
// # Selection
//
// Select maps the formula-unit counts of two phases onto the pair of
// determinant buckets whose supercells hold equal numbers of formula units.
package catalog
