// SPDX-License-Identifier: MIT
package tiles

import (
	"context"
	"fmt"

	"github.com/katalvlaran/torus/comm"
	"github.com/katalvlaran/torus/matrix"
	"github.com/katalvlaran/torus/topology"
)

// Collect gathers every rank's current tile at the coordinator and writes
// each one into the block of the rank that sent it. Returns the assembled
// R×C matrix on the coordinator and nil elsewhere.
func Collect(ctx context.Context, c *comm.Communicator, l Layout, tile *matrix.Dense) (*matrix.Dense, error) {
	if err := matrix.ValidateShape(tile, l.tileRows, l.tileCols); err != nil {
		return nil, fmt.Errorf("%w: local tile: %w", ErrTileShape, err)
	}
	buf, err := tile.MarshalBinary()
	if err != nil {
		return nil, err
	}
	parts, err := c.Gather(ctx, topology.Coordinator, buf, 0)
	if err != nil || c.Rank() != topology.Coordinator {
		return nil, err
	}

	global, err := matrix.NewDense(l.rows, l.cols)
	if err != nil {
		return nil, err
	}
	for rank, part := range parts {
		t, err := decodeTile(l, part)
		if err != nil {
			return nil, fmt.Errorf("from rank %d: %w", rank, err)
		}
		r0, c0, err := l.Origin(rank)
		if err != nil {
			return nil, err
		}
		if err := global.SetBlock(r0, c0, t); err != nil {
			return nil, err
		}
	}

	return global, nil
}
