// SPDX-License-Identifier: MIT
package engine

import (
	"time"

	"github.com/katalvlaran/torus/comm"
	"go.uber.org/zap"
)

// Option configures a run.
type Option func(*Options)

// Options holds run settings.
type Options struct {
	logger      *zap.Logger
	barrier     bool
	runID       string
	dialTimeout time.Duration
}

// WithLogger sets the logger; nil means zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithBarrier enables a grid-wide barrier after every command.
func WithBarrier(on bool) Option {
	return func(o *Options) { o.barrier = on }
}

// WithRunID sets the run identifier. RunLocal defaults to a random UUID,
// RunNode to one derived from the peer list.
func WithRunID(id string) Option {
	return func(o *Options) { o.runID = id }
}

// WithDialTimeout bounds each gRPC delivery in RunNode.
func WithDialTimeout(d time.Duration) Option {
	return func(o *Options) { o.dialTimeout = d }
}

func gatherOptions(opts []Option) Options {
	o := Options{logger: zap.NewNop(), dialTimeout: comm.DefaultDialTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
