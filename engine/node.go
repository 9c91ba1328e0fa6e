// SPDX-License-Identifier: MIT
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/torus/comm"
	"github.com/katalvlaran/torus/matrix"
	"github.com/katalvlaran/torus/tiles"
	"github.com/katalvlaran/torus/topology"
	"go.uber.org/zap"
)

// shutdownSeq tags the barrier that keeps every server up until all ranks are done.
const shutdownSeq = math.MaxUint32

// abortTimeout caps the time spent telling peers about a failure.
const abortTimeout = 5 * time.Second

// Loader produces the coordinator's job. RunNode calls it only on rank 0.
type Loader func() (*Job, error)

// DeriveRunID returns the run id every process of a multi-process run
// computes from the same peer list.
func DeriveRunID(peers []string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("torus:"+strings.Join(peers, ","))).String()
}

// RunNode runs one rank of a multi-process run: it serves its inbox on lis,
// reaches the others at peers (indexed by rank) and returns the final
// matrix on the coordinator. Every rank must be started with the same peers
// and layout.
func RunNode(ctx context.Context, rank int, lis net.Listener, peers []string, layout tiles.Layout, load Loader, opts ...Option) (*matrix.Dense, error) {
	o := gatherOptions(opts)
	if o.runID == "" {
		o.runID = DeriveRunID(peers)
	}
	if size := layout.Grid().Size(); len(peers) != size {
		return nil, Classify(fmt.Errorf("%w: %d peers for %d ranks", comm.ErrBadRank, len(peers), size))
	}

	t, err := comm.NewGRPCTransport(rank, lis, peers,
		comm.WithLogger(o.logger),
		comm.WithRunID(o.runID),
		comm.WithDialTimeout(o.dialTimeout),
	)
	if err != nil {
		return nil, Classify(err)
	}
	defer func() {
		if cerr := t.Close(); cerr != nil {
			o.logger.Warn("transport close failed", zap.Error(cerr))
		}
	}()
	c := comm.New(t, comm.WithLogger(o.logger))
	p := &Program{layout: layout, opts: o}
	log := o.logger.With(zap.String("run", o.runID), zap.Int("rank", rank))
	log.Info("node started", zap.String("addr", t.Addr()), zap.Int("ranks", len(peers)))

	var job *Job
	if rank == topology.Coordinator {
		if job, err = load(); err != nil {
			err = Classify(err)
			if aerr := p.Abort(ctx, c, err); aerr != nil {
				log.Warn("abort notice not delivered", zap.Error(aerr))
			}
			return nil, err
		}
	}

	out, err := p.Run(ctx, c, job)
	if err == nil {
		if berr := c.Barrier(ctx, shutdownSeq); berr != nil {
			err = Classify(fmt.Errorf("shutdown barrier: %w", berr))
		}
	}
	if err != nil {
		abortPeers(ctx, c, err, o.dialTimeout, log)
		return nil, err
	}
	log.Info("node finished")

	return out, nil
}

// abortPeers tells every other rank that this one failed with err, so none
// of them keeps waiting for a message it will never get. Failures that came
// from a peer, or that peers were already told about, are not passed on.
func abortPeers(ctx context.Context, c *comm.Communicator, err error, dialTimeout time.Duration, log *zap.Logger) {
	var told notifiedError
	if errors.Is(err, ErrAborted) || errors.As(err, &told) {
		return
	}
	limit := abortTimeout
	if dialTimeout > 0 && dialTimeout < limit {
		limit = dialTimeout
	}
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), limit)
	defer cancel()
	if aerr := c.Abort(actx, notice(err)); aerr != nil {
		log.Warn("abort notice not delivered to every peer", zap.Error(aerr))
		return
	}
	log.Info("peers told to abort", zap.Error(err))
}
