// SPDX-License-Identifier: MIT
package topology

import "fmt"

// Coordinator is the rank that owns the global matrix before distribution
// and after collection.
const Coordinator = 0

// Dim selects a grid dimension.
type Dim int

const (
	// DimRow is dimension 0: moving along it changes the row coordinate.
	DimRow Dim = iota
	// DimCol is dimension 1: moving along it changes the column coordinate.
	DimCol
)

// String implements fmt.Stringer.
func (d Dim) String() string {
	switch d {
	case DimRow:
		return "row"
	case DimCol:
		return "col"
	default:
		return fmt.Sprintf("Dim(%d)", int(d))
	}
}

// Coord is a position on the grid.
type Coord struct {
	Row, Col int
}

// String formats the coordinate as "(row,col)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Group is the ordered set of ranks on one line of the grid.
// Along is the dimension the members differ in; Fixed is the shared
// coordinate on the other dimension.
type Group struct {
	Along Dim
	Fixed int
	Ranks []int
}

// Size returns the number of ranks in the group.
func (g Group) Size() int { return len(g.Ranks) }

// Contains reports whether rank belongs to the group.
func (g Group) Contains(rank int) bool {
	return g.Index(rank) >= 0
}

// Index returns rank's position inside the group, or -1.
// Complexity: O(n).
func (g Group) Index(rank int) int {
	for i, r := range g.Ranks {
		if r == rank {
			return i
		}
	}

	return -1
}

// Grid treats P ranks as a periodic rows×cols lattice. It is immutable once built.
// shiftOffsets holds the unit step of each dimension, indexed by Dim.
type Grid struct {
	rows, cols   int
	shiftOffsets [2][2]int
}
