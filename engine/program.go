// SPDX-License-Identifier: MIT
package engine

import (
	"context"
	"fmt"

	"github.com/katalvlaran/torus/comm"
	"github.com/katalvlaran/torus/logging"
	"github.com/katalvlaran/torus/matrix"
	"github.com/katalvlaran/torus/shift"
	"github.com/katalvlaran/torus/tiles"
	"github.com/katalvlaran/torus/topology"
	"go.uber.org/zap"
)

// Header status byte: statusOK is followed by the encoded commands,
// statusAbort by the coordinator's abort notice.
const (
	statusOK    byte = 0
	statusAbort byte = 1
)

// notifiedError marks a failure that every peer has already been told about.
type notifiedError struct{ error }

func (e notifiedError) Unwrap() error { return e.error }

// Job is the coordinator's input: the global matrix and the command sequence.
type Job struct {
	Matrix   *matrix.Dense
	Commands []shift.Command
}

// Program is the per-rank program over one Layout.
type Program struct {
	layout tiles.Layout
	opts   Options
}

// NewProgram returns a program for layout.
func NewProgram(layout tiles.Layout, opts ...Option) *Program {
	return &Program{layout: layout, opts: gatherOptions(opts)}
}

// Check validates job against the layout without communicating.
func (p *Program) Check(job *Job) error {
	if job == nil {
		return fmt.Errorf("%w: no job on coordinator", matrix.ErrNilMatrix)
	}
	rows, cols := p.layout.Shape()
	if err := matrix.ValidateShape(job.Matrix, rows, cols); err != nil {
		return err
	}

	return shift.Validate(job.Commands, p.layout.Grid())
}

// Run executes the whole program for the rank behind c. The coordinator
// passes its job and receives the assembled matrix; other ranks pass nil
// and receive nil.
func (p *Program) Run(ctx context.Context, c *comm.Communicator, job *Job) (*matrix.Dense, error) {
	grid := p.layout.Grid()
	coord, err := grid.Coords(c.Rank())
	if err != nil {
		return nil, Classify(err)
	}
	log := logging.ForRank(p.opts.logger, p.opts.runID, c.Rank(), coord.Row, coord.Col)

	cmds, err := p.header(ctx, c, job)
	if err != nil {
		return nil, Classify(err)
	}
	log.Debug("commands received", zap.Int("count", len(cmds)))

	var (
		global *matrix.Dense
		before matrix.Stats
	)
	if job != nil {
		global = job.Matrix
		before = global.Stats()
	}
	tile, err := tiles.Distribute(ctx, c, p.layout, global)
	if err != nil {
		return nil, Classify(fmt.Errorf("distribute: %w", err))
	}
	log.Debug("tile received")

	iopts := []shift.Option{shift.WithLogger(log)}
	if p.opts.barrier {
		iopts = append(iopts, shift.WithBarrier())
	}
	in, err := shift.NewInterpreter(c, grid, iopts...)
	if err != nil {
		return nil, Classify(err)
	}
	if tile, err = in.Run(ctx, tile, cmds); err != nil {
		return nil, Classify(err)
	}

	out, err := tiles.Collect(ctx, c, p.layout, tile)
	if err != nil {
		return nil, Classify(fmt.Errorf("collect: %w", err))
	}
	if c.Rank() == topology.Coordinator {
		after := out.Stats()
		if !after.SameContent(before) {
			return nil, fmt.Errorf("%w: collected values differ from input (checksum %#x, want %#x)",
				ErrTransport, after.Checksum, before.Checksum)
		}
		log.Info("matrix collected",
			zap.Int("commands", len(cmds)),
			zap.Float64("min", after.Min),
			zap.Float64("max", after.Max),
		)
	}

	return out, nil
}

// header distributes the command sequence. The coordinator validates its
// job first and broadcasts an abort instead when the job is unusable.
func (p *Program) header(ctx context.Context, c *comm.Communicator, job *Job) ([]shift.Command, error) {
	if c.Rank() == topology.Coordinator {
		if err := p.Check(job); err != nil {
			err = Classify(err)
			if aerr := p.Abort(ctx, c, err); aerr != nil {
				p.opts.logger.Warn("abort notice not delivered", zap.Error(aerr))
				return nil, err
			}
			return nil, notifiedError{err}
		}
		hdr := append([]byte{statusOK}, shift.EncodeCommands(job.Commands)...)
		if _, err := c.Bcast(ctx, topology.Coordinator, hdr, 0); err != nil {
			return nil, err
		}
		return job.Commands, nil
	}

	hdr, err := c.Bcast(ctx, topology.Coordinator, nil, 0)
	if err != nil {
		return nil, err
	}
	if len(hdr) == 0 {
		return nil, fmt.Errorf("%w: empty run header", comm.ErrBadFrame)
	}
	switch hdr[0] {
	case statusOK:
		return shift.DecodeCommands(hdr[1:])
	case statusAbort:
		class, msg := parseNotice(hdr[1:])
		return nil, fmt.Errorf("%w: %w: coordinator: %s", class, ErrAborted, msg)
	default:
		return nil, fmt.Errorf("%w: run header status %d", comm.ErrBadFrame, hdr[0])
	}
}

// Abort tells every other rank that the coordinator cannot start the run
// because of cause. Only the coordinator calls it, and only instead of Run.
func (p *Program) Abort(ctx context.Context, c *comm.Communicator, cause error) error {
	hdr := append([]byte{statusAbort}, notice(cause)...)
	_, err := c.Bcast(ctx, topology.Coordinator, hdr, 0)

	return err
}
