// SPDX-License-Identifier: MIT
package tiles

import "errors"

var (
	// ErrIndivisible indicates a matrix extent not divisible by the grid extent.
	ErrIndivisible = errors.New("tiles: matrix shape not divisible by grid shape")
	// ErrTileShape indicates a received tile whose shape differs from the layout.
	ErrTileShape = errors.New("tiles: tile shape mismatch")
)
