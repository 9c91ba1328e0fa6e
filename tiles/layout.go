// SPDX-License-Identifier: MIT
package tiles

import (
	"fmt"

	"github.com/katalvlaran/torus/topology"
)

// Layout describes how an R×C matrix is cut over a grid.
type Layout struct {
	grid     *topology.Grid
	rows     int
	cols     int
	tileRows int
	tileCols int
}

// NewLayout validates that rows and cols split evenly over grid.
// Returns ErrIndivisible otherwise, including for non-positive extents.
func NewLayout(grid *topology.Grid, rows, cols int) (Layout, error) {
	gr, gc := grid.Dims()
	if rows < 1 || cols < 1 || rows%gr != 0 || cols%gc != 0 {
		return Layout{}, fmt.Errorf("%w: %dx%d over %dx%d grid", ErrIndivisible, rows, cols, gr, gc)
	}

	return Layout{grid: grid, rows: rows, cols: cols, tileRows: rows / gr, tileCols: cols / gc}, nil
}

// Grid returns the process grid.
func (l Layout) Grid() *topology.Grid { return l.grid }

// Shape returns the global extents (R, C).
func (l Layout) Shape() (rows, cols int) { return l.rows, l.cols }

// TileShape returns the tile extents (LR, LC).
func (l Layout) TileShape() (rows, cols int) { return l.tileRows, l.tileCols }

// Origin returns the global (row, col) of the top-left element of rank's block.
func (l Layout) Origin(rank int) (row, col int, err error) {
	c, err := l.grid.Coords(rank)
	if err != nil {
		return 0, 0, err
	}

	return c.Row * l.tileRows, c.Col * l.tileCols, nil
}
