// SPDX-License-Identifier: MIT
package tiles

import (
	"context"
	"fmt"

	"github.com/katalvlaran/torus/comm"
	"github.com/katalvlaran/torus/matrix"
	"github.com/katalvlaran/torus/topology"
	"golang.org/x/sync/errgroup"
)

var scatterTag = comm.Tag{Kind: comm.KindScatter}

// Distribute hands every rank its tile. Every rank calls it; only the
// coordinator passes global, which must be R×C. Other ranks pass nil and
// block until their tile arrives.
func Distribute(ctx context.Context, c *comm.Communicator, l Layout, global *matrix.Dense) (*matrix.Dense, error) {
	if c.Rank() != topology.Coordinator {
		buf, err := c.Recv(ctx, topology.Coordinator, scatterTag)
		if err != nil {
			return nil, err
		}
		return decodeTile(l, buf)
	}

	if err := matrix.ValidateShape(global, l.rows, l.cols); err != nil {
		return nil, fmt.Errorf("tiles: distribute: %w", err)
	}
	var own *matrix.Dense
	g, gctx := errgroup.WithContext(ctx)
	for rank := 0; rank < l.grid.Size(); rank++ {
		r0, c0, err := l.Origin(rank)
		if err != nil {
			return nil, err
		}
		block, err := global.Block(r0, c0, l.tileRows, l.tileCols)
		if err != nil {
			return nil, err
		}
		if rank == topology.Coordinator {
			own = block
			continue
		}
		buf, err := block.MarshalBinary()
		if err != nil {
			return nil, err
		}
		g.Go(func() error { return c.Send(gctx, rank, scatterTag, buf) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return own, nil
}

// decodeTile parses a received tile and checks it against the layout.
func decodeTile(l Layout, buf []byte) (*matrix.Dense, error) {
	tile, err := matrix.DecodeDense(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTileShape, err)
	}
	if r, c := tile.Shape(); r != l.tileRows || c != l.tileCols {
		return nil, fmt.Errorf("%w: got %dx%d, want %dx%d", ErrTileShape, r, c, l.tileRows, l.tileCols)
	}

	return tile, nil
}
