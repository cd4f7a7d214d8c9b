package distance

import (
	"math"
	"testing"

	"github.com/hupe1980/corrmin/lattice"
	"github.com/hupe1980/corrmin/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLattice(t *testing.T, c lattice.Cell) lattice.Lattice {
	t.Helper()
	l, err := lattice.FromCell(c)
	require.NoError(t, err)
	return l
}

func assertIdentity(t *testing.T, u [3][3]float64, delta float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, u[i][j], delta, "U[%d][%d]", i, j)
		}
	}
}

func rotateZ(l lattice.Lattice, deg float64) lattice.Lattice {
	s, c := math.Sincos(deg * math.Pi / 180)
	r := [3][3]float64{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}
	var out lattice.Lattice
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += r[i][k] * l[k][j]
			}
		}
	}
	return out
}

func TestCompute_SelfDistance(t *testing.T) {
	t.Run("CubicExact", func(t *testing.T) {
		l := mustLattice(t, lattice.Cell{A: 5, B: 5, C: 5, Alpha: 90, Beta: 90, Gamma: 90})

		res, err := Compute(l, l, model.Identity(), model.Identity())
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Distance)
		assertIdentity(t, res.Stretch, 0)
		assert.Equal(t, model.Identity(), res.Ref)
		assert.Equal(t, model.Identity(), res.Def)
	})

	t.Run("Triclinic", func(t *testing.T) {
		l := mustLattice(t, lattice.Cell{A: 7.381, B: 11.755, C: 15.94, Alpha: 102.912, Beta: 92.025, Gamma: 100.595})
		p := model.Matrix{{1, 1, 0}, {0, 1, 0}, {0, 0, 2}}

		res, err := Compute(l, l, p, p)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, res.Distance, 1e-18)
		assertIdentity(t, res.Stretch, 1e-9)
	})
}

func TestCompute_DiagonalStrain(t *testing.T) {
	ref := mustLattice(t, lattice.Cell{A: 5, B: 5, C: 5, Alpha: 90, Beta: 90, Gamma: 90})
	def := mustLattice(t, lattice.Cell{A: 5, B: 5, C: 6, Alpha: 90, Beta: 90, Gamma: 90})

	res, err := Compute(ref, def, model.Identity(), model.Identity())
	require.NoError(t, err)

	// U = diag(1, 1, 1.2), U⁻² − I = diag(0, 0, 1/1.44 − 1)
	assert.InDelta(t, math.Pow(1/1.44-1, 2), res.Distance, 1e-12)
	assert.InDelta(t, 1.2, res.Stretch[2][2], 1e-12)
	assert.InDelta(t, 1.0, res.Stretch[0][0], 1e-12)
	assert.InDelta(t, 0.0, res.Stretch[0][2], 1e-12)
}

func TestCompute_RotationInvariant(t *testing.T) {
	ref := mustLattice(t, lattice.Cell{A: 6.0552, B: 7.0297, C: 15.969, Alpha: 96.315, Beta: 93.979, Gamma: 90.279})
	def := mustLattice(t, lattice.Cell{A: 7.381, B: 11.755, C: 15.94, Alpha: 102.912, Beta: 92.025, Gamma: 100.595})
	pRef := model.Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	pDef := model.Matrix{{1, 0, 0}, {0, 1, 1}, {0, 0, 1}}

	want, err := Compute(ref, def, pRef, pDef)
	require.NoError(t, err)
	assert.Greater(t, want.Distance, 0.0)

	for _, deg := range []float64{15, 90, 137.5} {
		got, err := Compute(ref, rotateZ(def, deg), pRef, pDef)
		require.NoError(t, err)
		assert.InDelta(t, want.Distance, got.Distance, 1e-9, "rotation %v", deg)
	}

	// A rigidly rotated copy of the reference is at distance zero.
	got, err := Compute(ref, rotateZ(ref, 33), pRef, pRef)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got.Distance, 1e-18)
}

func TestCompute_SingularBasis(t *testing.T) {
	l := mustLattice(t, lattice.Cell{A: 5, B: 5, C: 5, Alpha: 90, Beta: 90, Gamma: 90})
	singular := model.Matrix{{1, 1, 0}, {1, 1, 0}, {0, 0, 1}}

	_, err := Compute(l, l, singular, model.Identity())
	require.ErrorIs(t, err, ErrSingularBasis)

	_, err = Compute(l, l, model.Identity(), singular)
	require.ErrorIs(t, err, ErrSingularBasis)
}

func TestCompute_ScaleInvariant(t *testing.T) {
	p := model.Matrix{{1, 0, 0}, {0, 1, 0}, {0, 1, 1}}

	for _, scale := range []float64{1e-5, 1, 1e5} {
		ref := mustLattice(t, lattice.Cell{A: 4 * scale, B: 5 * scale, C: 6 * scale, Alpha: 90, Beta: 90, Gamma: 90})
		def := mustLattice(t, lattice.Cell{A: 4.2 * scale, B: 5.1 * scale, C: 5.8 * scale, Alpha: 91, Beta: 89, Gamma: 90.5})

		self, err := Compute(ref, ref, p, p)
		require.NoError(t, err, "scale %g", scale)
		assert.InDelta(t, 0, self.Distance, 1e-12, "scale %g", scale)

		got, err := Compute(ref, def, model.Identity(), model.Identity())
		require.NoError(t, err, "scale %g", scale)

		want, err := Compute(
			mustLattice(t, lattice.Cell{A: 4, B: 5, C: 6, Alpha: 90, Beta: 90, Gamma: 90}),
			mustLattice(t, lattice.Cell{A: 4.2, B: 5.1, C: 5.8, Alpha: 91, Beta: 89, Gamma: 90.5}),
			model.Identity(), model.Identity(),
		)
		require.NoError(t, err)
		assert.InDelta(t, want.Distance, got.Distance, 1e-9, "scale %g", scale)
	}
}

func TestEngine_PrepareReuse(t *testing.T) {
	ref := mustLattice(t, lattice.Cell{A: 4, B: 5, C: 6, Alpha: 90, Beta: 90, Gamma: 90})
	def := mustLattice(t, lattice.Cell{A: 4.2, B: 5.1, C: 5.8, Alpha: 91, Beta: 89, Gamma: 90.5})

	e := NewEngine()
	_, err := e.Eval(def, model.Identity())
	require.Error(t, err)

	require.NoError(t, e.Prepare(ref, model.Identity()))

	defs := []model.Matrix{
		model.Identity(),
		{{1, 0, 0}, {0, 1, 0}, {0, 1, 1}},
		{{0, 1, 0}, {0, 0, 1}, {1, 0, 0}},
	}
	for _, p := range defs {
		got, err := e.Eval(def, p)
		require.NoError(t, err)

		want, err := Compute(ref, def, model.Identity(), p)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
