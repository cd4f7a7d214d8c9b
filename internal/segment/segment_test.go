package segment

import (
	"encoding/binary"
	"testing"

	"github.com/hupe1980/corrmin/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMatrices(n int) []model.Matrix {
	out := make([]model.Matrix, 0, n)
	for i := 0; i < n; i++ {
		m := model.Identity()
		m[0][1] = int8(i%5 - 2)
		m[2][0] = int8(i%3 - 1)
		out = append(out, m)
	}
	return out
}

func TestEncodeDecode(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			in := sampleMatrices(1000)

			data, err := Encode(in, c)
			require.NoError(t, err)

			h, err := ReadHeader(data)
			require.NoError(t, err)
			assert.Equal(t, uint32(1000), h.Count)
			assert.Equal(t, uint32(9000), h.RawSize)
			assert.Equal(t, c, h.Compression)
			if c != CompressionNone {
				assert.Less(t, h.StoredSize, h.RawSize)
			}

			out, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, in, out)
		})
	}
}

func TestEncode_IncompressibleFallsBackToRaw(t *testing.T) {
	in := []model.Matrix{model.Identity()}

	data, err := Encode(in, CompressionLZ4)
	require.NoError(t, err)

	h, err := ReadHeader(data)
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, h.Compression)
	assert.Len(t, data, HeaderSize+model.MatrixBytes)

	out, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncode_Empty(t *testing.T) {
	data, err := Encode(nil, CompressionZSTD)
	require.NoError(t, err)

	out, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDecodeInto_ReusesBuffer(t *testing.T) {
	data, err := Encode(sampleMatrices(10), CompressionLZ4)
	require.NoError(t, err)

	buf := make([]model.Matrix, 0, 64)
	out, err := DecodeInto(buf, data)
	require.NoError(t, err)
	assert.Len(t, out, 10)
	assert.Equal(t, 64, cap(out))
}

func TestDecode_Corrupt(t *testing.T) {
	good, err := Encode(sampleMatrices(100), CompressionLZ4)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"Short", func(b []byte) []byte { return b[:10] }},
		{"BadMagic", func(b []byte) []byte { b[0] = 'X'; return b }},
		{"BadVersion", func(b []byte) []byte { b[4] = 9; return b }},
		{"CountMismatch", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[8:], 7)
			return b
		}},
		{"Truncated", func(b []byte) []byte { return b[:len(b)-3] }},
		{"GarbledPayload", func(b []byte) []byte {
			for i := HeaderSize; i < len(b); i++ {
				b[i] = 0xFF
			}
			return b
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(append([]byte(nil), good...))
			_, err := Decode(data)
			require.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in   string
		want Compression
	}{
		{"", CompressionLZ4},
		{"lz4", CompressionLZ4},
		{"ZSTD", CompressionZSTD},
		{"none", CompressionNone},
	}
	for _, tt := range tests {
		got, err := ParseCompression(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseCompression("snappy")
	require.ErrorIs(t, err, ErrInvalidSegment)
}
