// SPDX-License-Identifier: MIT

// Package matrix provides the dense storage that moves through the torus engine.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with safe At/Set accessors.
//   - MatrixView, a no-copy window, plus Block/SetBlock to cut tiles out of a
//     global matrix and place them back.
//   - A bit-exact binary codec (MarshalBinary/UnmarshalBinary) used as the
//     tile payload on the wire.
//   - The plain-text matrix format (ReadText/WriteText): a row count, a column
//     count, then the values in row-major order.
//
// All user-triggered failures are reported through the sentinels in errors.go.
package matrix
