// SPDX-License-Identifier: MIT

// Package matrix - binary tile codec.
//
// Frame layout (little-endian):
//
//	uint32 rows
//	uint32 cols
//	rows*cols × float64 (IEEE-754 bits, row-major)
//
// The codec is bit-exact: NaN payloads and signed zeros survive a round trip,
// which is what lets a tile travel around the torus and compare Equal on return.

package matrix

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"math"
)

const tileHeaderSize = 8

var (
	_ encoding.BinaryMarshaler   = (*Dense)(nil)
	_ encoding.BinaryUnmarshaler = (*Dense)(nil)
)

// MarshalBinary encodes the matrix into a self-describing frame.
// Complexity: O(r*c).
func (m *Dense) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	buf := make([]byte, tileHeaderSize+8*len(m.data))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(m.r))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(m.c))
	off := tileHeaderSize
	for _, v := range m.data {
		binary.LittleEndian.PutUint64(buf[off:off+8], math.Float64bits(v))
		off += 8
	}

	return buf, nil
}

// UnmarshalBinary replaces m's shape and contents with the decoded frame.
// The receiver keeps its numeric policy.
//
// Errors:
//   - ErrBadEncoding on a short frame, zero dimensions or a length that does
//     not match the header.
func (m *Dense) UnmarshalBinary(data []byte) error {
	if len(data) < tileHeaderSize {
		return fmt.Errorf("decode tile: %d bytes: %w", len(data), ErrBadEncoding)
	}
	rows := int(binary.LittleEndian.Uint32(data[0:4]))
	cols := int(binary.LittleEndian.Uint32(data[4:8]))
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("decode tile: shape %dx%d: %w", rows, cols, ErrBadEncoding)
	}
	if want := tileHeaderSize + 8*rows*cols; len(data) != want {
		return fmt.Errorf("decode tile: %d bytes, want %d: %w", len(data), want, ErrBadEncoding)
	}
	vals := make([]float64, rows*cols)
	off := tileHeaderSize
	for k := range vals {
		vals[k] = math.Float64frombits(binary.LittleEndian.Uint64(data[off : off+8]))
		off += 8
	}
	m.r, m.c, m.data = rows, cols, vals

	return nil
}

// DecodeDense is a convenience wrapper around UnmarshalBinary that allocates
// the result with the given options.
func DecodeDense(data []byte, opts ...Option) (*Dense, error) {
	o := gatherOptions(opts...)
	m := &Dense{validateNaNInf: o.validateNaNInf}
	if err := m.UnmarshalBinary(data); err != nil {
		return nil, err
	}

	return m, nil
}
