package model

import (
	"fmt"
	"math"
	"strings"
)

const (
	// SentinelDeterminant is the bucket holding only the identity matrix.
	SentinelDeterminant = 0
	// MaxDeterminant is the largest determinant (sublattice index) enumerated.
	MaxDeterminant = 8
	// MatrixBytes is the encoded size of one Matrix.
	MatrixBytes = 9
)

// Matrix is a 3×3 integer correspondence matrix stored row-major.
type Matrix [3][3]int8

// Identity returns the 3×3 identity matrix.
func Identity() Matrix {
	return Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Det returns the determinant as a float64.
func (m Matrix) Det() float64 {
	a := m.Float()
	return a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
}

// Float returns the matrix with float64 entries.
func (m Matrix) Float() [3][3]float64 {
	var f [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			f[i][j] = float64(m[i][j])
		}
	}
	return f
}

// IntegerDet reports the nearest integer to det(m) and whether det(m) lies
// within tol of it.
func (m Matrix) IntegerDet(tol float64) (int, bool) {
	d := m.Det()
	r := math.Round(d)
	return int(r), math.Abs(d-r) <= tol
}

// Key encodes m as a base-(2·bound+1) number with each entry shifted by bound.
// Entries must lie in [-bound, bound].
func (m Matrix) Key(bound int) uint64 {
	base := uint64(2*bound + 1)
	var k uint64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			k = k*base + uint64(int(m[i][j])+bound)
		}
	}
	return k
}

// AppendBytes appends the row-major int8 encoding of m to dst.
func (m Matrix) AppendBytes(dst []byte) []byte {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dst = append(dst, byte(m[i][j]))
		}
	}
	return dst
}

// MatrixFromBytes decodes the first MatrixBytes of b.
func MatrixFromBytes(b []byte) Matrix {
	var m Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = int8(b[3*i+j])
		}
	}
	return m
}

// String returns a compact row representation, e.g. "[[1 0 0] [0 1 0] [0 0 1]]".
func (m Matrix) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < 3; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "[%d %d %d]", m[i][0], m[i][1], m[i][2])
	}
	sb.WriteByte(']')
	return sb.String()
}

// Result is the evaluation of one (reference, deformed) correspondence pair.
// Results are never mutated after creation.
type Result struct {
	// Distance is the strain deviation; lower is a better physical match.
	Distance float64 `json:"distance" msgpack:"distance"`
	// Stretch is the right stretch tensor U of the deformation gradient.
	Stretch [3][3]float64 `json:"stretch" msgpack:"stretch"`
	// Ref is the correspondence matrix applied to the reference lattice.
	Ref Matrix `json:"ref" msgpack:"ref"`
	// Def is the correspondence matrix applied to the deformed lattice.
	Def Matrix `json:"def" msgpack:"def"`
}

// String returns a string representation of the Result.
func (r Result) String() string {
	return fmt.Sprintf("Result(%.6g ref=%s def=%s)", r.Distance, r.Ref, r.Def)
}
