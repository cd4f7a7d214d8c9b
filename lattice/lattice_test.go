package lattice

import (
	"testing"

	"github.com/hupe1980/corrmin/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCellInDelta(t *testing.T, want, got Cell, delta float64) {
	t.Helper()
	wl, gl := want.Lengths(), got.Lengths()
	wa, ga := want.Angles(), got.Angles()
	assert.InDeltaSlice(t, wl[:], gl[:], delta)
	assert.InDeltaSlice(t, wa[:], ga[:], delta)
}

func TestFromCell_Cubic(t *testing.T) {
	l, err := FromCell(Cell{A: 5, B: 5, C: 5, Alpha: 90, Beta: 90, Gamma: 90})
	require.NoError(t, err)

	// Orthogonal cells are exact, not merely close.
	assert.Equal(t, Lattice{{5, 0, 0}, {0, 5, 0}, {0, 0, 5}}, l)
}

func TestFromCell_RoundTrip(t *testing.T) {
	cells := []Cell{
		{A: 7.381, B: 11.755, C: 15.94, Alpha: 102.912, Beta: 92.025, Gamma: 100.595},
		{A: 6.0552, B: 7.0297, C: 15.969, Alpha: 96.315, Beta: 93.979, Gamma: 90.279},
		{A: 15.738, B: 9.2352, C: 15.704, Alpha: 90, Beta: 109.1209, Gamma: 90},
		{A: 3, B: 3, C: 5, Alpha: 90, Beta: 90, Gamma: 120},
	}

	for _, c := range cells {
		t.Run(c.String(), func(t *testing.T) {
			l, err := FromCell(c)
			require.NoError(t, err)

			a := l.Column(0)
			assert.Equal(t, 0.0, a[1])
			assert.Equal(t, 0.0, a[2])
			assert.Equal(t, 0.0, l.Column(1)[2])

			assertCellInDelta(t, c, Parameters(l), 1e-9)
		})
	}
}

func TestFromCell_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
	}{
		{"ZeroLength", Cell{A: 0, B: 1, C: 1, Alpha: 90, Beta: 90, Gamma: 90}},
		{"NegativeLength", Cell{A: 1, B: -1, C: 1, Alpha: 90, Beta: 90, Gamma: 90}},
		{"FlatAngle", Cell{A: 1, B: 1, C: 1, Alpha: 180, Beta: 90, Gamma: 90}},
		{"NoVolume", Cell{A: 1, B: 1, C: 1, Alpha: 130, Beta: 130, Gamma: 130}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromCell(tt.cell)
			require.ErrorIs(t, err, ErrInvalidCell)
		})
	}
}

func TestApply(t *testing.T) {
	base := Cell{A: 4, B: 5, C: 6, Alpha: 90, Beta: 90, Gamma: 90}
	l, err := FromCell(base)
	require.NoError(t, err)

	t.Run("Identity", func(t *testing.T) {
		assert.Equal(t, l, Apply(l, model.Identity()))
	})

	t.Run("Supercell", func(t *testing.T) {
		m := model.Matrix{{2, 0, 0}, {0, 1, 0}, {0, 0, 3}}
		got := Parameters(Apply(l, m))
		assertCellInDelta(t, Cell{A: 8, B: 5, C: 18, Alpha: 90, Beta: 90, Gamma: 90}, got, 1e-12)
	})

	t.Run("FaceDiagonal", func(t *testing.T) {
		// a' = a + b, b' = b
		m := model.Matrix{{1, 0, 0}, {1, 1, 0}, {0, 0, 1}}
		got := Parameters(Apply(l, m))
		assert.InDelta(t, 6.403124237, got.A, 1e-9)
		assert.InDelta(t, 5.0, got.B, 1e-12)
		assert.InDelta(t, 38.659808254, got.Gamma, 1e-9)
	})
}

func TestBound(t *testing.T) {
	ref := Cell{A: 7.381, B: 11.755, C: 15.94, Alpha: 102.912, Beta: 92.025, Gamma: 100.595}
	def := Cell{A: 6.0552, B: 7.0297, C: 15.969, Alpha: 96.315, Beta: 93.979, Gamma: 90.279}

	assert.Equal(t, 3, Bound(ref, def))
	assert.Equal(t, 1, Bound(Cell{A: 5, B: 5, C: 5, Alpha: 90, Beta: 90, Gamma: 90}))
	assert.Equal(t, 1, Bound())
}
