// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for numeric policy and text I/O.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal).
//
// Design goals:
//   - Deterministic behavior: no global state.
//   - No dead switches: each flag impacts behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultValidateNaNInf toggles strict finite-value validation on Set and text ingestion.
	// Tiles are shuffled, never computed on, so the engine leaves non-finite input alone
	// unless the caller opts in.
	DefaultValidateNaNInf = false

	// DefaultPrecision is the number of digits after the decimal point written by WriteText
	// (the %.16e format round-trips every float64).
	DefaultPrecision = 16

	// maxPrecision bounds WithPrecision; strconv accepts more, but nothing beyond 17 digits
	// carries information for a float64.
	maxPrecision = 32
)

const panicPrecisionInvalid = "matrix: WithPrecision: precision must be in [0, 32]"

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	validateNaNInf bool // DefaultValidateNaNInf
	precision      int  // DefaultPrecision
}

// WithValidateNaNInf rejects NaN/±Inf on Set and during ReadText.
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf accepts any float64, including NaN/±Inf.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// WithPrecision sets the number of fractional digits written by WriteText.
// Panics when p is outside [0, 32] (programmer error).
func WithPrecision(p int) Option {
	if p < 0 || p > maxPrecision {
		panic(panicPrecisionInvalid)
	}

	return func(o *Options) { o.precision = p }
}

// gatherOptions applies user-provided setters on top of defaults (last-writer-wins).
// Complexity: O(k) for k=len(user).
func gatherOptions(user ...Option) Options {
	o := Options{
		validateNaNInf: DefaultValidateNaNInf,
		precision:      DefaultPrecision,
	}
	for _, set := range user {
		set(&o)
	}

	return o
}
