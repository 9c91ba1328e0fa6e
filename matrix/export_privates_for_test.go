// SPDX-License-Identifier: MIT
// Package matrix - test-only hooks.
//
// Purpose:
//   - Expose the effective Options after gatherOptions so tests can assert
//     defaults and last-writer-wins without widening the public API.
//
// Notes:
//   - Compiled only with `go test` of this package's external tests.

package matrix

// OptionsSnapshot is a read-only copy of Options.
type OptionsSnapshot struct {
	ValidateNaNInf bool
	Precision      int
}

// GatherOptionsSnapshot_TestOnly returns the options derived from opts.
func GatherOptionsSnapshot_TestOnly(opts ...Option) OptionsSnapshot {
	o := gatherOptions(opts...)

	return OptionsSnapshot{ValidateNaNInf: o.validateNaNInf, Precision: o.precision}
}
