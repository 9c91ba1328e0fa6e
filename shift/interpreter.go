// SPDX-License-Identifier: MIT
package shift

import (
	"context"
	"fmt"

	"github.com/katalvlaran/torus/comm"
	"github.com/katalvlaran/torus/matrix"
	"github.com/katalvlaran/torus/tiles"
	"github.com/katalvlaran/torus/topology"
	"go.uber.org/zap"
)

// debugTileLimit is the largest tile, in elements, written out in debug logs.
const debugTileLimit = 16

// Interpreter applies commands to the tile held by one rank.
type Interpreter struct {
	c    *comm.Communicator
	grid *topology.Grid
	opts Options
	log  *zap.Logger
}

// NewInterpreter binds an interpreter to the communicator's rank on grid.
// Returns topology.ErrRankOutOfRange if the rank is not on the grid.
func NewInterpreter(c *comm.Communicator, grid *topology.Grid, opts ...Option) (*Interpreter, error) {
	coord, err := grid.Coords(c.Rank())
	if err != nil {
		return nil, err
	}
	o := gatherOptions(opts)

	return &Interpreter{
		c:    c,
		grid: grid,
		opts: o,
		log:  o.logger.With(zap.Int("rank", c.Rank()), zap.Stringer("coord", coord)),
	}, nil
}

// Apply executes cmd, the seq-th command of the run. A participating rank
// sends its tile to the next rank along the axis and returns the tile
// received from the previous one; any other rank returns tile unchanged
// without communicating.
func (in *Interpreter) Apply(ctx context.Context, tile *matrix.Dense, cmd Command, seq uint32) (*matrix.Dense, error) {
	if !cmd.Axis.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, cmd)
	}
	if !cmd.Involves(in.grid, in.c.Rank()) {
		return tile, nil
	}
	src, dst, err := in.grid.Shift(in.c.Rank(), cmd.Axis.Dim(), cmd.Axis.Disp())
	if err != nil {
		return nil, err
	}
	out, err := tile.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf, err := in.c.Sendrecv(ctx, out, dst, src, comm.Tag{Kind: comm.KindShift, Seq: seq})
	if err != nil {
		return nil, fmt.Errorf("command %d %v: %w", seq, cmd, err)
	}
	next, err := matrix.DecodeDense(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: command %d from rank %d: %w", tiles.ErrTileShape, seq, src, err)
	}
	if err := matrix.ValidateSameShape(tile, next); err != nil {
		return nil, fmt.Errorf("%w: command %d from rank %d: %w", tiles.ErrTileShape, seq, src, err)
	}
	if ce := in.log.Check(zap.DebugLevel, "shift applied"); ce != nil {
		fields := []zap.Field{
			zap.Uint32("seq", seq),
			zap.Stringer("cmd", cmd),
			zap.Int("from", src),
			zap.Int("to", dst),
		}
		if next.Len() <= debugTileLimit {
			fields = append(fields, zap.Stringer("tile", next))
		}
		ce.Write(fields...)
	}

	return next, nil
}

// Run applies cmds in order, numbering them from 0, and returns the final
// tile. With WithBarrier every rank waits for the whole grid after each
// command.
func (in *Interpreter) Run(ctx context.Context, tile *matrix.Dense, cmds []Command) (*matrix.Dense, error) {
	var (
		err     error
		touched int
	)
	for i, cmd := range cmds {
		seq := uint32(i)
		if cmd.Involves(in.grid, in.c.Rank()) {
			touched++
		}
		if tile, err = in.Apply(ctx, tile, cmd, seq); err != nil {
			return nil, err
		}
		if in.opts.barrier {
			if err := in.c.Barrier(ctx, seq); err != nil {
				return nil, fmt.Errorf("barrier after command %d: %w", seq, err)
			}
		}
	}
	in.log.Info("commands replayed", zap.Int("total", len(cmds)), zap.Int("participated", touched))

	return tile, nil
}
