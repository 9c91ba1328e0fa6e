// SPDX-License-Identifier: MIT
package shift

import "go.uber.org/zap"

// Option configures an Interpreter.
type Option func(*Options)

// Options holds Interpreter settings.
type Options struct {
	barrier bool
	logger  *zap.Logger
}

// WithBarrier makes Run wait for the whole grid after every command, so no
// rank starts command i+1 before all ranks finished command i.
func WithBarrier() Option {
	return func(o *Options) { o.barrier = true }
}

// WithLogger sets the logger; nil means zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

func gatherOptions(opts []Option) Options {
	o := Options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
