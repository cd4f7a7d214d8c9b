// Package segment encodes and decodes matrix catalog segments.
//
// A segment is an immutable blob holding up to a catalog's segment capacity
// of correspondence matrices with the same determinant. The layout is a
// fixed 20-byte little-endian header followed by the payload:
//
//	offset size field
//	0      4    magic "CMSG"
//	4      1    version (1)
//	5      1    compression (0 none, 1 lz4, 2 zstd)
//	6      2    reserved
//	8      4    matrix count
//	12     4    raw payload size (count × 9)
//	16     4    stored payload size
//
// The raw payload is count matrices of nine int8 entries in row-major order.
// When compression does not shrink the payload it is stored raw and the
// header records CompressionNone.
package segment
