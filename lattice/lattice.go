// Package lattice converts between unit-cell parameters and Cartesian lattice
// bases and applies correspondence matrices to bases.
//
// A Lattice stores basis vectors as columns: l[i][j] is Cartesian component i
// of basis vector j. Cell angles follow the crystallographic convention:
// Alpha is the angle between b and c, Beta between a and c, Gamma between a and b.
package lattice

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/corrmin/model"
)

// ErrInvalidCell is returned when cell parameters do not describe a real cell.
var ErrInvalidCell = errors.New("lattice: invalid cell parameters")

// orthoTol is the angular distance from 90° (in degrees) below which a
// cosine is taken to be exactly zero.
const orthoTol = 1e-12

// Lattice is a 3×3 matrix whose columns are Cartesian basis vectors.
type Lattice [3][3]float64

// Cell holds unit-cell edge lengths and inter-axial angles in degrees.
type Cell struct {
	A     float64 `json:"a" yaml:"a" msgpack:"a" validate:"gt=0"`
	B     float64 `json:"b" yaml:"b" msgpack:"b" validate:"gt=0"`
	C     float64 `json:"c" yaml:"c" msgpack:"c" validate:"gt=0"`
	Alpha float64 `json:"alpha" yaml:"alpha" msgpack:"alpha" validate:"gt=0,lt=180"`
	Beta  float64 `json:"beta" yaml:"beta" msgpack:"beta" validate:"gt=0,lt=180"`
	Gamma float64 `json:"gamma" yaml:"gamma" msgpack:"gamma" validate:"gt=0,lt=180"`
}

// Lengths returns the edge lengths as an array.
func (c Cell) Lengths() [3]float64 { return [3]float64{c.A, c.B, c.C} }

// Angles returns alpha, beta and gamma as an array.
func (c Cell) Angles() [3]float64 { return [3]float64{c.Alpha, c.Beta, c.Gamma} }

// String returns a string representation of the Cell.
func (c Cell) String() string {
	return fmt.Sprintf("a=%.4f b=%.4f c=%.4f α=%.3f β=%.3f γ=%.3f", c.A, c.B, c.C, c.Alpha, c.Beta, c.Gamma)
}

// FromCell builds a Lattice with a along x and b in the xy plane.
func FromCell(c Cell) (Lattice, error) {
	for _, v := range c.Lengths() {
		if !(v > 0) || math.IsInf(v, 0) {
			return Lattice{}, fmt.Errorf("%w: edge length %v", ErrInvalidCell, v)
		}
	}
	for _, v := range c.Angles() {
		if !(v > 0 && v < 180) {
			return Lattice{}, fmt.Errorf("%w: angle %v", ErrInvalidCell, v)
		}
	}

	ca, cb, cg := cosd(c.Alpha), cosd(c.Beta), cosd(c.Gamma)
	sg := sind(c.Gamma)

	cx := c.C * cb
	cy := c.C * (ca - cb*cg) / sg
	cz2 := c.C*c.C - cx*cx - cy*cy
	if cz2 <= 0 {
		return Lattice{}, fmt.Errorf("%w: angles %.3f/%.3f/%.3f give no volume", ErrInvalidCell, c.Alpha, c.Beta, c.Gamma)
	}

	var l Lattice
	l.SetColumn(0, [3]float64{c.A, 0, 0})
	l.SetColumn(1, [3]float64{c.B * cg, c.B * sg, 0})
	l.SetColumn(2, [3]float64{cx, cy, math.Sqrt(cz2)})
	return l, nil
}

// Column returns basis vector j.
func (l Lattice) Column(j int) [3]float64 {
	return [3]float64{l[0][j], l[1][j], l[2][j]}
}

// SetColumn replaces basis vector j.
func (l *Lattice) SetColumn(j int, v [3]float64) {
	l[0][j], l[1][j], l[2][j] = v[0], v[1], v[2]
}

// Apply returns the transformed basis l·m.
func Apply(l Lattice, m model.Matrix) Lattice {
	f := m.Float()
	var out Lattice
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += l[i][k] * f[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}

// Parameters derives edge lengths and angles from the basis columns.
func Parameters(l Lattice) Cell {
	a, b, c := l.Column(0), l.Column(1), l.Column(2)
	return Cell{
		A:     norm(a),
		B:     norm(b),
		C:     norm(c),
		Alpha: angle(b, c),
		Beta:  angle(a, c),
		Gamma: angle(a, b),
	}
}

// Bound returns the enumeration bound for the given cells: the ratio of the
// largest to the smallest edge length, rounded, and never below 1.
func Bound(cells ...Cell) int {
	lo, hi := math.Inf(1), 0.0
	for _, c := range cells {
		for _, v := range c.Lengths() {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if len(cells) == 0 || lo <= 0 {
		return 1
	}
	return max(int(math.Round(hi/lo)), 1)
}

func cosd(deg float64) float64 {
	if math.Abs(deg-90) < orthoTol {
		return 0
	}
	return math.Cos(deg * math.Pi / 180)
}

func sind(deg float64) float64 {
	if math.Abs(deg-90) < orthoTol {
		return 1
	}
	return math.Sin(deg * math.Pi / 180)
}

func dot(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func norm(a [3]float64) float64 { return math.Sqrt(dot(a, a)) }

func angle(a, b [3]float64) float64 {
	na, nb := norm(a), norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	c := dot(a, b) / (na * nb)
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi
}
