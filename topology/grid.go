// SPDX-License-Identifier: MIT
package topology

import "fmt"

// NewGrid constructs a periodic rows×cols grid over size ranks.
// Returns ErrGridShape if either extent is < 1 or rows*cols != size.
// Complexity: O(1).
func NewGrid(rows, cols, size int) (*Grid, error) {
	if rows < 1 || cols < 1 || rows*cols != size {
		return nil, fmt.Errorf("%w: %dx%d grid for %d ranks", ErrGridShape, rows, cols, size)
	}

	return &Grid{
		rows: rows,
		cols: cols,
		// unit steps: DimRow moves one row down, DimCol one column right
		shiftOffsets: [2][2]int{{1, 0}, {0, 1}},
	}, nil
}

// Dims returns the grid extents (rows, cols).
func (g *Grid) Dims() (rows, cols int) { return g.rows, g.cols }

// Extent returns the number of positions along dim, or 0 for an unknown dim.
func (g *Grid) Extent(dim Dim) int {
	switch dim {
	case DimRow:
		return g.rows
	case DimCol:
		return g.cols
	default:
		return 0
	}
}

// Size returns the number of ranks (rows*cols).
func (g *Grid) Size() int { return g.rows * g.cols }

// Periodic reports whether dim wraps around. Both dimensions always do.
func (g *Grid) Periodic(dim Dim) bool { return dim == DimRow || dim == DimCol }

// Coords maps a rank to its row-major coordinate.
// Complexity: O(1).
func (g *Grid) Coords(rank int) (Coord, error) {
	if rank < 0 || rank >= g.Size() {
		return Coord{}, fmt.Errorf("%w: %d not in [0,%d)", ErrRankOutOfRange, rank, g.Size())
	}

	return Coord{Row: rank / g.cols, Col: rank % g.cols}, nil
}

// Rank maps (row, col) to a rank. Both coordinates are reduced modulo the
// extents first, so Rank(-1, c) is the last row and Rank(rows, c) is row 0.
// Complexity: O(1).
func (g *Grid) Rank(row, col int) int {
	return wrap(row, g.rows)*g.cols + wrap(col, g.cols)
}

// RankOf is Rank for a Coord.
func (g *Grid) RankOf(c Coord) int { return g.Rank(c.Row, c.Col) }

// RowGroup returns the ranks sharing grid row `row` (wrapped), ordered by column.
// Complexity: O(cols).
func (g *Grid) RowGroup(row int) Group {
	r := wrap(row, g.rows)
	ranks := make([]int, g.cols)
	for c := range ranks {
		ranks[c] = g.Rank(r, c)
	}

	return Group{Along: DimCol, Fixed: r, Ranks: ranks}
}

// ColGroup returns the ranks sharing grid column `col` (wrapped), ordered by row.
// Complexity: O(rows).
func (g *Grid) ColGroup(col int) Group {
	c := wrap(col, g.cols)
	ranks := make([]int, g.rows)
	for r := range ranks {
		ranks[r] = g.Rank(r, c)
	}

	return Group{Along: DimRow, Fixed: c, Ranks: ranks}
}

// Shift returns the neighbors of rank at displacement disp along dim:
// dest is disp steps forward, source is disp steps backward. A rank that
// sends to dest and receives from source moves data forward by disp.
// On an extent of 1 both neighbors are the rank itself.
// Complexity: O(1).
func (g *Grid) Shift(rank int, dim Dim, disp int) (source, dest int, err error) {
	if dim != DimRow && dim != DimCol {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnknownDim, dim)
	}
	c, err := g.Coords(rank)
	if err != nil {
		return 0, 0, err
	}
	d := g.shiftOffsets[dim]
	dest = g.Rank(c.Row+d[0]*disp, c.Col+d[1]*disp)
	source = g.Rank(c.Row-d[0]*disp, c.Col-d[1]*disp)

	return source, dest, nil
}

// wrap reduces a into [0, n) for any sign of a. n must be >= 1.
func wrap(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}

	return a
}
