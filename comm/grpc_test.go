// SPDX-License-Identifier: MIT
package comm_test

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/katalvlaran/torus/comm"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"
)

// startGRPC opens one loopback listener per rank and starts every transport.
func startGRPC(t *testing.T, n int, runIDs func(rank int) string) []*comm.GRPCTransport {
	t.Helper()
	listeners := make([]net.Listener, n)
	peers := make([]string, n)
	for i := range listeners {
		lis, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		listeners[i] = lis
		peers[i] = lis.Addr().String()
	}
	ts := make([]*comm.GRPCTransport, n)
	for i := range ts {
		tr, err := comm.NewGRPCTransport(i, listeners[i], peers,
			comm.WithLogger(zaptest.NewLogger(t)),
			comm.WithRunID(runIDs(i)),
			comm.WithDialTimeout(2*time.Second),
		)
		require.NoError(t, err)
		require.Equal(t, peers[i], tr.Addr())
		ts[i] = tr
	}
	t.Cleanup(func() {
		for _, tr := range ts {
			require.NoError(t, tr.Close())
		}
	})

	return ts
}

func sameRun(int) string { return "run-1" }

// TestGRPC_Collectives runs a ring exchange, a gather and a barrier over loopback.
func TestGRPC_Collectives(t *testing.T) {
	const n = 3
	ts := startGRPC(t, n, sameRun)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	for _, tr := range ts {
		c := comm.New(tr)
		g.Go(func() error {
			r := c.Rank()
			got, err := c.Sendrecv(gctx, u32(r), (r+1)%n, (r+n-1)%n, comm.Tag{Kind: comm.KindShift, Seq: 7})
			if err != nil {
				return err
			}
			require.Equal(t, uint32((r+n-1)%n), binary.LittleEndian.Uint32(got))

			all, err := c.Gather(gctx, 0, got, 0)
			if err != nil {
				return err
			}
			if r == 0 {
				require.Len(t, all, n)
			}
			return c.Barrier(gctx, 0)
		})
	}
	require.NoError(t, g.Wait())
}

// TestGRPC_RunMismatch rejects a message stamped with another run id.
func TestGRPC_RunMismatch(t *testing.T) {
	ts := startGRPC(t, 2, func(rank int) string {
		if rank == 0 {
			return "run-a"
		}
		return "run-b"
	})

	err := ts[0].Send(context.Background(), 1, tagA, []byte("x"))
	require.ErrorIs(t, err, comm.ErrRunMismatch)
}

// TestGRPC_Duplicate surfaces a repeated (source, tag) delivery to the sender.
func TestGRPC_Duplicate(t *testing.T) {
	ts := startGRPC(t, 2, sameRun)

	require.NoError(t, ts[0].Send(context.Background(), 1, tagA, nil))
	require.ErrorIs(t, ts[0].Send(context.Background(), 1, tagA, nil), comm.ErrDuplicateMessage)
}

// TestGRPC_Unreachable reports a peer that never comes up as a transport failure.
func TestGRPC_Unreachable(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	dead, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	deadAddr := dead.Addr().String()
	require.NoError(t, dead.Close())

	tr, err := comm.NewGRPCTransport(0, lis, []string{lis.Addr().String(), deadAddr},
		comm.WithDialTimeout(200*time.Millisecond))
	require.NoError(t, err)
	defer tr.Close()

	err = tr.Send(context.Background(), 1, tagA, nil)
	require.ErrorIs(t, err, comm.ErrTransport)
}

// TestGRPC_BadArgs covers constructor validation.
func TestGRPC_BadArgs(t *testing.T) {
	_, err := comm.NewGRPCTransport(2, nil, []string{"a", "b"})
	require.ErrorIs(t, err, comm.ErrBadRank)
	_, err = comm.NewGRPCTransport(0, nil, []string{"a"})
	require.ErrorIs(t, err, comm.ErrTransport)
}

// TestGRPC_AbortNotice wakes a receiver blocked on a peer that gave up.
func TestGRPC_AbortNotice(t *testing.T) {
	ts := startGRPC(t, 3, sameRun)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		_, err := ts[1].Recv(ctx, 0, tagA)
		errc <- err
	}()
	require.NoError(t, comm.New(ts[0]).Abort(ctx, []byte("gone")))

	var ab *comm.AbortError
	require.ErrorAs(t, <-errc, &ab)
	require.Equal(t, 0, ab.Src)
	require.Equal(t, []byte("gone"), ab.Notice)
	_, err := ts[2].Recv(ctx, 1, tagA)
	require.ErrorIs(t, err, comm.ErrAborted)
}
