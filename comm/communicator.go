// SPDX-License-Identifier: MIT
package comm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Communicator provides point-to-point and collective operations for one
// rank over a Transport. It is not safe to run two collectives with the same
// Tag concurrently.
type Communicator struct {
	t   Transport
	log *zap.Logger
}

// New wraps t. Only WithLogger is meaningful here.
func New(t Transport, opts ...Option) *Communicator {
	o := gatherOptions(opts)

	return &Communicator{t: t, log: o.logger.With(zap.Int("rank", t.Rank()))}
}

// Rank returns the local rank.
func (c *Communicator) Rank() int { return c.t.Rank() }

// Size returns the number of ranks.
func (c *Communicator) Size() int { return c.t.Size() }

// Transport returns the underlying transport.
func (c *Communicator) Transport() Transport { return c.t }

// Send delivers payload to dst under tag.
func (c *Communicator) Send(ctx context.Context, dst int, tag Tag, payload []byte) error {
	if err := c.t.Send(ctx, dst, tag, payload); err != nil {
		return fmt.Errorf("send %v to %d: %w", tag, dst, err)
	}

	return nil
}

// Recv waits for the message from src under tag.
func (c *Communicator) Recv(ctx context.Context, src int, tag Tag) ([]byte, error) {
	p, err := c.t.Recv(ctx, src, tag)
	if err != nil {
		return nil, fmt.Errorf("recv %v from %d: %w", tag, src, err)
	}

	return p, nil
}

// Sendrecv sends payload to dst and receives one message from src, both
// under tag. The two directions run concurrently; the first failure cancels
// the other. dst and src may be the local rank.
func (c *Communicator) Sendrecv(ctx context.Context, payload []byte, dst, src int, tag Tag) ([]byte, error) {
	var got []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.Send(gctx, dst, tag, payload)
	})
	g.Go(func() error {
		p, err := c.Recv(gctx, src, tag)
		got = p
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return got, nil
}

// Bcast copies payload from root to every rank. On root the argument is
// returned; elsewhere it is ignored and the root's payload is returned.
func (c *Communicator) Bcast(ctx context.Context, root int, payload []byte, seq uint32) ([]byte, error) {
	tag := Tag{Kind: KindBcast, Seq: seq}
	if c.Rank() != root {
		return c.Recv(ctx, root, tag)
	}
	g, gctx := errgroup.WithContext(ctx)
	for dst := 0; dst < c.Size(); dst++ {
		if dst == root {
			continue
		}
		g.Go(func() error { return c.Send(gctx, dst, tag, payload) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	c.log.Debug("broadcast sent", zap.Int("bytes", len(payload)), zap.Uint32("seq", seq))

	return payload, nil
}

// Gather collects one payload from every rank at root. On root the result
// is indexed by source rank; elsewhere it is nil.
func (c *Communicator) Gather(ctx context.Context, root int, payload []byte, seq uint32) ([][]byte, error) {
	tag := Tag{Kind: KindGather, Seq: seq}
	if c.Rank() != root {
		return nil, c.Send(ctx, root, tag, payload)
	}
	out := make([][]byte, c.Size())
	out[root] = payload
	g, gctx := errgroup.WithContext(ctx)
	for src := 0; src < c.Size(); src++ {
		if src == root {
			continue
		}
		g.Go(func() error {
			p, err := c.Recv(gctx, src, tag)
			out[src] = p
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// Barrier returns once every rank has entered the barrier with the same seq.
// Non-root ranks report to rank 0 and wait for its release.
func (c *Communicator) Barrier(ctx context.Context, seq uint32) error {
	const root = 0
	arrive := Tag{Kind: KindBarrier, Seq: seq}
	release := Tag{Kind: KindRelease, Seq: seq}
	if c.Rank() != root {
		if err := c.Send(ctx, root, arrive, nil); err != nil {
			return err
		}
		_, err := c.Recv(ctx, root, release)
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for src := 1; src < c.Size(); src++ {
		g.Go(func() error {
			_, err := c.Recv(gctx, src, arrive)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	g, gctx = errgroup.WithContext(ctx)
	for dst := 1; dst < c.Size(); dst++ {
		g.Go(func() error { return c.Send(gctx, dst, release, nil) })
	}

	return g.Wait()
}

// Abort sends notice to every other rank under KindAbort. On arrival the
// peer's receives fail with an *AbortError carrying notice. Sends run
// concurrently and do not stop at the first failure; the returned error
// joins every undelivered notice.
func (c *Communicator) Abort(ctx context.Context, notice []byte) error {
	tag := Tag{Kind: KindAbort}
	errs := make([]error, c.Size())
	var g errgroup.Group
	for dst := 0; dst < c.Size(); dst++ {
		if dst == c.Rank() {
			continue
		}
		g.Go(func() error {
			errs[dst] = c.Send(ctx, dst, tag, notice)
			return nil
		})
	}
	_ = g.Wait()
	err := errors.Join(errs...)
	c.log.Debug("abort notice sent", zap.Int("peers", c.Size()-1), zap.Error(err))

	return err
}

// Close closes the transport.
func (c *Communicator) Close() error { return c.t.Close() }
