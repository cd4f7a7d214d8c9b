package segment

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/corrmin/model"
)

var (
	// ErrInvalidSegment is returned for malformed encode requests or options.
	ErrInvalidSegment = errors.New("segment: invalid segment")
	// ErrCorrupt is returned when a stored segment cannot be decoded.
	ErrCorrupt = errors.New("segment: corrupt segment")
)

const (
	// Version is the current segment format version.
	Version = 1
	// HeaderSize is the size of the fixed segment header.
	HeaderSize = 20
)

var magic = [4]byte{'C', 'M', 'S', 'G'}

// Header is the decoded fixed-size segment header.
type Header struct {
	Version     uint8
	Compression Compression
	Count       uint32
	RawSize     uint32
	StoredSize  uint32
}

// Encode serializes matrices into a segment blob using compression c.
func Encode(matrices []model.Matrix, c Compression) ([]byte, error) {
	raw := make([]byte, 0, len(matrices)*model.MatrixBytes)
	for _, m := range matrices {
		raw = m.AppendBytes(raw)
	}

	stored, err := compress(raw, c)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		stored, c = raw, CompressionNone
	}

	out := make([]byte, HeaderSize, HeaderSize+len(stored))
	copy(out[0:4], magic[:])
	out[4] = Version
	out[5] = byte(c)
	binary.LittleEndian.PutUint32(out[8:], uint32(len(matrices)))
	binary.LittleEndian.PutUint32(out[12:], uint32(len(raw)))
	binary.LittleEndian.PutUint32(out[16:], uint32(len(stored)))
	return append(out, stored...), nil
}

// ReadHeader validates and decodes the header of a segment blob.
func ReadHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorrupt, len(data))
	}
	if [4]byte(data[0:4]) != magic {
		return Header{}, fmt.Errorf("%w: bad magic %q", ErrCorrupt, data[0:4])
	}

	h := Header{
		Version:     data[4],
		Compression: Compression(data[5]),
		Count:       binary.LittleEndian.Uint32(data[8:]),
		RawSize:     binary.LittleEndian.Uint32(data[12:]),
		StoredSize:  binary.LittleEndian.Uint32(data[16:]),
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, h.Version)
	}
	if uint64(h.Count)*model.MatrixBytes != uint64(h.RawSize) {
		return Header{}, fmt.Errorf("%w: count %d does not match raw size %d", ErrCorrupt, h.Count, h.RawSize)
	}
	if uint64(len(data)-HeaderSize) != uint64(h.StoredSize) {
		return Header{}, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorrupt, len(data)-HeaderSize, h.StoredSize)
	}
	return h, nil
}

// Decode parses a segment blob into its matrices.
func Decode(data []byte) ([]model.Matrix, error) {
	return DecodeInto(nil, data)
}

// DecodeInto is like Decode but appends to dst[:0], reusing its capacity.
func DecodeInto(dst []model.Matrix, data []byte) ([]model.Matrix, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}

	raw, err := decompress(data[HeaderSize:], h.Compression, int(h.RawSize))
	if err != nil {
		return nil, err
	}

	dst = dst[:0]
	for off := 0; off < len(raw); off += model.MatrixBytes {
		dst = append(dst, model.MatrixFromBytes(raw[off:]))
	}
	return dst, nil
}
