// SPDX-License-Identifier: MIT
package comm

import (
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultMaxMessageSize bounds one gRPC envelope (tile or broadcast).
	DefaultMaxMessageSize = 64 << 20
	// DefaultDialTimeout bounds how long a rank waits for a peer to come up.
	DefaultDialTimeout = 30 * time.Second
)

// Option configures a Communicator or a GRPCTransport.
type Option func(*Options)

// Options holds the knobs shared by the comm constructors.
type Options struct {
	logger         *zap.Logger
	runID          string
	maxMessageSize int
	dialTimeout    time.Duration
}

// WithLogger sets the logger; nil means zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRunID stamps outgoing gRPC messages with id and rejects inbound
// messages carrying a different one. Empty disables the check.
func WithRunID(id string) Option {
	return func(o *Options) { o.runID = id }
}

// WithMaxMessageSize sets the largest gRPC envelope accepted, in bytes.
// Panics if n < 1.
func WithMaxMessageSize(n int) Option {
	if n < 1 {
		panic("comm: WithMaxMessageSize requires n >= 1")
	}

	return func(o *Options) { o.maxMessageSize = n }
}

// WithDialTimeout bounds each gRPC delivery, including waiting for the peer
// to start listening. Zero disables the bound.
func WithDialTimeout(d time.Duration) Option {
	return func(o *Options) { o.dialTimeout = d }
}

func gatherOptions(opts []Option) Options {
	o := Options{
		logger:         zap.NewNop(),
		maxMessageSize: DefaultMaxMessageSize,
		dialTimeout:    DefaultDialTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
