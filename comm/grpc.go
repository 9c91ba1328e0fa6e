// SPDX-License-Identifier: MIT
package comm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	exchangeService = "torus.comm.v1.Exchange"
	deliverMethod   = "/" + exchangeService + "/Deliver"
	runIDHeader     = "x-torus-run-id"
)

// exchangeServer is the handler contract behind exchangeServiceDesc.
type exchangeServer interface {
	deliver(ctx context.Context, in *wrapperspb.BytesValue) (*emptypb.Empty, error)
}

// exchangeServiceDesc declares the single unary Deliver RPC. The request is
// an encoded frame wrapped in BytesValue; the reply is empty.
var exchangeServiceDesc = grpc.ServiceDesc{
	ServiceName: exchangeService,
	HandlerType: (*exchangeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Deliver", Handler: deliverHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "torus/comm/exchange",
}

func deliverHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(exchangeServer).deliver(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: deliverMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(exchangeServer).deliver(ctx, req.(*wrapperspb.BytesValue))
	}

	return interceptor(ctx, in, info, handler)
}

// GRPCTransport is a Transport for one rank running in its own process.
// It serves Deliver on a listener and dials peers lazily by address.
type GRPCTransport struct {
	rank  int
	peers []string
	opts  Options
	log   *zap.Logger

	box      *Mailbox
	lis      net.Listener
	srv      *grpc.Server
	serveErr chan error

	mu     sync.Mutex
	conns  map[int]*grpc.ClientConn
	closed bool
}

var (
	_ Transport      = (*GRPCTransport)(nil)
	_ exchangeServer = (*GRPCTransport)(nil)
)

// NewGRPCTransport starts serving rank's inbox on lis. peers[i] is the
// dialable address of rank i; peers[rank] is not dialed. The transport owns
// lis from here on and closes it in Close.
func NewGRPCTransport(rank int, lis net.Listener, peers []string, opts ...Option) (*GRPCTransport, error) {
	if len(peers) == 0 || rank < 0 || rank >= len(peers) {
		return nil, fmt.Errorf("%w: rank %d with %d peers", ErrBadRank, rank, len(peers))
	}
	if lis == nil {
		return nil, fmt.Errorf("%w: nil listener", ErrTransport)
	}
	o := gatherOptions(opts)
	t := &GRPCTransport{
		rank:     rank,
		peers:    append([]string(nil), peers...),
		opts:     o,
		log:      o.logger.With(zap.Int("rank", rank)),
		box:      NewMailbox(),
		lis:      lis,
		srv:      grpc.NewServer(grpc.MaxRecvMsgSize(o.maxMessageSize)),
		serveErr: make(chan error, 1),
		conns:    make(map[int]*grpc.ClientConn),
	}
	t.srv.RegisterService(&exchangeServiceDesc, t)
	go func() {
		t.serveErr <- t.srv.Serve(lis)
	}()
	t.log.Debug("grpc transport listening", zap.String("addr", lis.Addr().String()))

	return t, nil
}

// Addr returns the address the transport is serving on.
func (t *GRPCTransport) Addr() string { return t.lis.Addr().String() }

// Rank returns the local rank.
func (t *GRPCTransport) Rank() int { return t.rank }

// Size returns the number of peers.
func (t *GRPCTransport) Size() int { return len(t.peers) }

// Send delivers payload to dst with one Deliver RPC. The call waits for the
// peer's server to become reachable, bounded by the dial timeout.
func (t *GRPCTransport) Send(ctx context.Context, dst int, tag Tag, payload []byte) error {
	if dst < 0 || dst >= len(t.peers) {
		return fmt.Errorf("%w: send to %d", ErrBadRank, dst)
	}
	if dst == t.rank {
		cp := make([]byte, len(payload))
		copy(cp, payload)
		return t.box.Put(t.rank, tag, cp)
	}
	conn, err := t.conn(dst)
	if err != nil {
		return err
	}

	callCtx := ctx
	if t.opts.dialTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, t.opts.dialTimeout)
		defer cancel()
	}
	if t.opts.runID != "" {
		callCtx = metadata.AppendToOutgoingContext(callCtx, runIDHeader, t.opts.runID)
	}
	in := &wrapperspb.BytesValue{Value: encodeFrame(t.rank, tag, payload)}
	err = conn.Invoke(callCtx, deliverMethod, in, new(emptypb.Empty), grpc.WaitForReady(true))
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	st := status.Convert(err)
	switch st.Code() {
	case codes.AlreadyExists:
		return fmt.Errorf("%w: to %d %v", ErrDuplicateMessage, dst, tag)
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: rank %d: %s", ErrRunMismatch, dst, st.Message())
	default:
		return fmt.Errorf("%w: deliver %v to rank %d at %s: %s: %s",
			ErrTransport, tag, dst, t.peers[dst], st.Code(), st.Message())
	}
}

// Recv blocks until the message from src under tag has been delivered.
func (t *GRPCTransport) Recv(ctx context.Context, src int, tag Tag) ([]byte, error) {
	if src < 0 || src >= len(t.peers) {
		return nil, fmt.Errorf("%w: recv from %d", ErrBadRank, src)
	}

	return t.box.Take(ctx, src, tag)
}

// Close stops the server, closes client connections and wakes blocked
// receivers. Idempotent.
func (t *GRPCTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	conns := t.conns
	t.conns = nil
	t.mu.Unlock()

	t.box.Close()
	t.srv.GracefulStop()
	var errs []error
	if err := <-t.serveErr; err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		errs = append(errs, err)
	}
	for _, c := range conns {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	t.log.Debug("grpc transport closed")

	return errors.Join(errs...)
}

// conn returns the client connection to dst, creating it on first use.
func (t *GRPCTransport) conn(dst int) (*grpc.ClientConn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}
	if c, ok := t.conns[dst]; ok {
		return c, nil
	}
	c, err := grpc.NewClient(t.peers[dst],
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(t.opts.maxMessageSize)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: dial rank %d at %q: %v", ErrTransport, dst, t.peers[dst], err)
	}
	t.conns[dst] = c

	return c, nil
}

// deliver is the server side of Deliver: validate the envelope and drop it
// into the mailbox.
func (t *GRPCTransport) deliver(ctx context.Context, in *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	if t.opts.runID != "" {
		md, _ := metadata.FromIncomingContext(ctx)
		if got := md.Get(runIDHeader); len(got) != 1 || got[0] != t.opts.runID {
			return nil, status.Errorf(codes.FailedPrecondition, "run id %v, want %q", got, t.opts.runID)
		}
	}
	src, tag, payload, err := decodeFrame(in.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if src < 0 || src >= len(t.peers) {
		return nil, status.Errorf(codes.InvalidArgument, "source rank %d out of range", src)
	}
	switch err := t.box.Put(src, tag, payload); {
	case err == nil:
		return &emptypb.Empty{}, nil
	case errors.Is(err, ErrDuplicateMessage):
		return nil, status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, ErrClosed):
		return nil, status.Error(codes.Unavailable, err.Error())
	default:
		return nil, status.Error(codes.Internal, err.Error())
	}
}
