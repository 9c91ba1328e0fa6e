// SPDX-License-Identifier: MIT
package shift

import (
	"fmt"

	"github.com/katalvlaran/torus/topology"
)

// Axis selects the direction of a rotation. The numeric values are the
// selectors used in command files.
type Axis int

const (
	// RowDown moves tiles one grid row down within a column.
	RowDown Axis = 0
	// RowUp moves tiles one grid row up within a column.
	RowUp Axis = 1
	// ColRight moves tiles one grid column right within a row.
	ColRight Axis = 2
	// ColLeft moves tiles one grid column left within a row.
	ColLeft Axis = 3
)

// String implements fmt.Stringer.
func (a Axis) String() string {
	switch a {
	case RowDown:
		return "row-down"
	case RowUp:
		return "row-up"
	case ColRight:
		return "col-right"
	case ColLeft:
		return "col-left"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Valid reports whether a is one of the four known selectors.
func (a Axis) Valid() bool { return a >= RowDown && a <= ColLeft }

// Dim returns the grid dimension tiles move along.
func (a Axis) Dim() topology.Dim {
	if a == RowDown || a == RowUp {
		return topology.DimRow
	}

	return topology.DimCol
}

// Disp returns the displacement along Dim: +1 for down/right, -1 for up/left.
func (a Axis) Disp() int {
	if a == RowDown || a == ColRight {
		return 1
	}

	return -1
}

// Command is one rotation: Axis applied to the line selected by Index.
type Command struct {
	Axis  Axis
	Index int
}

// String formats the command as "axis[index]".
func (c Command) String() string {
	return fmt.Sprintf("%v[%d]", c.Axis, c.Index)
}

// Line returns the ranks that take part in c, ordered along the motion.
// Row-axis commands select a grid column, column-axis commands a grid row.
func (c Command) Line(grid *topology.Grid) topology.Group {
	if c.Axis.Dim() == topology.DimRow {
		return grid.ColGroup(c.Index)
	}

	return grid.RowGroup(c.Index)
}

// Involves reports whether rank takes part in c on grid.
func (c Command) Involves(grid *topology.Grid, rank int) bool {
	return c.Line(grid).Contains(rank)
}

// Validate checks every command against grid before anything is sent.
// Returns ErrInvalidCommand naming the first bad command.
func Validate(cmds []Command, grid *topology.Grid) error {
	for i, c := range cmds {
		if !c.Axis.Valid() {
			return fmt.Errorf("%w: command %d: unknown axis %d", ErrInvalidCommand, i, int(c.Axis))
		}
		// the index addresses the dimension perpendicular to the motion
		limit := grid.Extent(topology.DimCol)
		if c.Axis.Dim() == topology.DimCol {
			limit = grid.Extent(topology.DimRow)
		}
		if c.Index < 0 || c.Index >= limit {
			return fmt.Errorf("%w: command %d (%v): index not in [0,%d)", ErrInvalidCommand, i, c, limit)
		}
	}

	return nil
}
