// SPDX-License-Identifier: MIT
package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/katalvlaran/torus/comm"
	"github.com/katalvlaran/torus/matrix"
	"github.com/katalvlaran/torus/tiles"
	"github.com/katalvlaran/torus/topology"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunLocal runs every rank of layout's grid as a goroutine in this process
// and returns the final matrix. The job is validated before any rank starts;
// afterwards the first failing rank cancels all others.
func RunLocal(ctx context.Context, layout tiles.Layout, job *Job, opts ...Option) (*matrix.Dense, error) {
	o := gatherOptions(opts)
	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	p := &Program{layout: layout, opts: o}
	if err := p.Check(job); err != nil {
		return nil, Classify(err)
	}

	size := layout.Grid().Size()
	network, err := comm.NewLocalNetwork(size)
	if err != nil {
		return nil, Classify(err)
	}
	defer network.Close()

	o.logger.Info("local run starting",
		zap.String("run", o.runID),
		zap.Int("ranks", size),
		zap.Int("commands", len(job.Commands)),
	)
	var result *matrix.Dense
	g, gctx := errgroup.WithContext(ctx)
	for rank := 0; rank < size; rank++ {
		ep, err := network.Endpoint(rank)
		if err != nil {
			return nil, Classify(err)
		}
		g.Go(func() error {
			var j *Job
			if rank == topology.Coordinator {
				j = job
			}
			out, err := p.Run(gctx, comm.New(ep, comm.WithLogger(o.logger)), j)
			if rank == topology.Coordinator {
				result = out
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Classify(err)
	}

	return result, nil
}
