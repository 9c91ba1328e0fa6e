// SPDX-License-Identifier: MIT

// Package matrix - rectangular block copy in and out of a Dense.
//
// Purpose:
//   - Block materializes an independent copy of a window (a tile leaving its owner).
//   - SetBlock writes a whole tile back into a window (a tile arriving at the assembler).
//
// Both go through View so there is exactly one place that validates window bounds.

package matrix

import "fmt"

const (
	ctxBlock    = "Block"
	ctxSetBlock = "SetBlock"
)

// Block copies the rows×cols window whose top-left corner is (r0, c0).
// MAIN DESCRIPTION:
//   - Copy-based submatrix with independent lifetime; policy is preserved.
//
// Implementation:
//   - Stage 1: validate the window via View.
//   - Stage 2: copy row slices into a freshly allocated Dense.
//
// Errors:
//   - ErrBadShape when the window does not fit.
//
// Complexity:
//   - Time O(rows*cols), Space O(rows*cols).
func (m *Dense) Block(r0, c0, rows, cols int) (*Dense, error) {
	v, err := m.View(r0, c0, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("Dense.%s: %w", ctxBlock, err)
	}
	out := &Dense{
		r:              rows,
		c:              cols,
		data:           make([]float64, rows*cols),
		validateNaNInf: m.validateNaNInf,
	}
	var i int
	for i = 0; i < rows; i++ {
		copy(out.data[i*cols:(i+1)*cols], v.row(i))
	}

	return out, nil
}

// SetBlock overwrites the window at (r0, c0) with the contents of src.
// MAIN DESCRIPTION:
//   - Inverse of Block: the window has src's shape.
//
// Errors:
//   - ErrNilMatrix when src is nil; ErrBadShape when src does not fit at (r0, c0).
//
// Complexity:
//   - Time O(src.r*src.c), Space O(1).
func (m *Dense) SetBlock(r0, c0 int, src *Dense) error {
	if src == nil {
		return fmt.Errorf("Dense.%s: %w", ctxSetBlock, ErrNilMatrix)
	}
	v, err := m.View(r0, c0, src.r, src.c)
	if err != nil {
		return fmt.Errorf("Dense.%s: %w", ctxSetBlock, err)
	}
	var i int
	for i = 0; i < src.r; i++ {
		copy(v.row(i), src.data[i*src.c:(i+1)*src.c])
	}

	return nil
}
