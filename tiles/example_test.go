// SPDX-License-Identifier: MIT
package tiles_test

import (
	"fmt"

	"github.com/katalvlaran/torus/tiles"
	"github.com/katalvlaran/torus/topology"
)

// ExampleLayout_Origin prints where each rank's block starts on a 2×3 grid.
func ExampleLayout_Origin() {
	grid, _ := topology.NewGrid(2, 3, 6)
	layout, _ := tiles.NewLayout(grid, 4, 9)
	for rank := 0; rank < grid.Size(); rank++ {
		r, c, _ := layout.Origin(rank)
		fmt.Printf("rank %d: (%d,%d)\n", rank, r, c)
	}
	// Output:
	// rank 0: (0,0)
	// rank 1: (0,3)
	// rank 2: (0,6)
	// rank 3: (2,0)
	// rank 4: (2,3)
	// rank 5: (2,6)
}
