package distance

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/corrmin/lattice"
	"github.com/hupe1980/corrmin/model"
	"gonum.org/v1/gonum/mat"
)

// ErrSingularBasis is returned when a transformed reference basis cannot be
// inverted or the strain tensor is not positive definite.
var ErrSingularBasis = errors.New("distance: singular basis")

// singularTol is the smallest |det| accepted for a transformed reference
// basis, relative to the product of its column lengths. The ratio is the
// volume of the cell with unit edges, so it does not depend on the scale.
const singularTol = 1e-10

// Engine evaluates correspondence pairs. It is not safe for concurrent use.
type Engine struct {
	pRef     model.Matrix
	prepared bool

	basis  *mat.Dense
	refInv *mat.Dense
	f      *mat.Dense
	c      *mat.SymDense
	eig    mat.EigenSym
	vecs   mat.Dense
	vals   []float64
}

// NewEngine creates an Engine.
func NewEngine() *Engine {
	return &Engine{
		basis:  mat.NewDense(3, 3, nil),
		refInv: mat.NewDense(3, 3, nil),
		f:      mat.NewDense(3, 3, nil),
		c:      mat.NewSymDense(3, nil),
		vals:   make([]float64, 3),
	}
}

// Compute evaluates one pair. It is Prepare followed by Eval.
func (e *Engine) Compute(ref, def lattice.Lattice, pRef, pDef model.Matrix) (model.Result, error) {
	if err := e.Prepare(ref, pRef); err != nil {
		return model.Result{}, err
	}
	return e.Eval(def, pDef)
}

// Prepare fixes the reference side and caches the inverse of ref·pRef.
func (e *Engine) Prepare(ref lattice.Lattice, pRef model.Matrix) error {
	e.prepared = false
	e.setBasis(lattice.Apply(ref, pRef))

	if d := mat.Det(e.basis); math.Abs(d) < singularTol*edgeProduct(e.basis) || math.IsNaN(d) {
		return fmt.Errorf("%w: det(E_ref·P_ref) = %g for P_ref %s", ErrSingularBasis, d, pRef)
	}
	if err := e.refInv.Inverse(e.basis); err != nil {
		return fmt.Errorf("%w: P_ref %s: %v", ErrSingularBasis, pRef, err)
	}

	e.pRef = pRef
	e.prepared = true
	return nil
}

// Eval scores def·pDef against the prepared reference.
func (e *Engine) Eval(def lattice.Lattice, pDef model.Matrix) (model.Result, error) {
	if !e.prepared {
		return model.Result{}, errors.New("distance: engine not prepared")
	}

	e.setBasis(lattice.Apply(def, pDef))
	e.f.Mul(e.basis, e.refInv)
	e.c.SymOuterK(1, e.f.T())

	if ok := e.eig.Factorize(e.c, true); !ok {
		return model.Result{}, fmt.Errorf("%w: eigendecomposition failed for %s/%s", ErrSingularBasis, e.pRef, pDef)
	}
	e.vals = e.eig.Values(e.vals)
	e.eig.VectorsTo(&e.vecs)

	var u, inv2 [3][3]float64
	for k, lambda := range e.vals {
		if !(lambda > 0) {
			return model.Result{}, fmt.Errorf("%w: eigenvalue %g for %s/%s", ErrSingularBasis, lambda, e.pRef, pDef)
		}
		s, w := math.Sqrt(lambda), 1/lambda
		for i := 0; i < 3; i++ {
			vi := e.vecs.At(i, k)
			for j := 0; j < 3; j++ {
				p := vi * e.vecs.At(j, k)
				u[i][j] += s * p
				inv2[i][j] += w * p
			}
		}
	}

	var d float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a := inv2[i][j]
			if i == j {
				a--
			}
			d += a * a
		}
	}

	return model.Result{
		Distance: d,
		Stretch:  u,
		Ref:      e.pRef,
		Def:      pDef,
	}, nil
}

func (e *Engine) setBasis(l lattice.Lattice) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			e.basis.Set(i, j, l[i][j])
		}
	}
}

func edgeProduct(m *mat.Dense) float64 {
	p := 1.0
	for j := 0; j < 3; j++ {
		p *= mat.Norm(m.ColView(j), 2)
	}
	return p
}

// Compute evaluates one pair with a fresh Engine.
func Compute(ref, def lattice.Lattice, pRef, pDef model.Matrix) (model.Result, error) {
	return NewEngine().Compute(ref, def, pRef, pDef)
}
