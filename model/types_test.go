package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixDet(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		want float64
	}{
		{"Identity", Identity(), 1},
		{"Diagonal", Matrix{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}}, 8},
		{"Singular", Matrix{{1, 1, 0}, {1, 1, 0}, {0, 0, 1}}, 0},
		{"Negative", Matrix{{0, 1, 0}, {1, 0, 0}, {0, 0, 1}}, -1},
		{"Shear", Matrix{{1, 1, 0}, {0, 1, 0}, {0, 0, 2}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.Det())
			d, ok := tt.m.IntegerDet(1e-6)
			assert.True(t, ok)
			assert.Equal(t, int(tt.want), d)
		})
	}
}

func TestMatrixKey(t *testing.T) {
	const bound = 2

	lo := Matrix{{-2, -2, -2}, {-2, -2, -2}, {-2, -2, -2}}
	hi := Matrix{{2, 2, 2}, {2, 2, 2}, {2, 2, 2}}

	assert.Equal(t, uint64(0), lo.Key(bound))

	max := uint64(1)
	for i := 0; i < 9; i++ {
		max *= 5
	}
	assert.Equal(t, max-1, hi.Key(bound))
	assert.NotEqual(t, Identity().Key(bound), Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 2}}.Key(bound))
}

func TestMatrixBytes(t *testing.T) {
	m := Matrix{{1, -2, 3}, {-4, 5, -6}, {7, -8, 9}}

	b := m.AppendBytes(nil)
	require.Len(t, b, MatrixBytes)
	assert.Equal(t, m, MatrixFromBytes(b))
	assert.Equal(t, "[[1 -2 3] [-4 5 -6] [7 -8 9]]", m.String())
}
