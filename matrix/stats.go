// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Summarize a matrix by quantities that do not depend on element order,
//     so a matrix whose tiles were only permuted can be checked against the
//     input matrix without knowing the permutation.
//
// Exposed API:
//   - (*Dense).Stats() -> Stats{Count, Min, Max, Checksum}
//
// Determinism & Performance:
//   - Single row-major pass through Do; no allocation.
//   - Checksum is the wrapping uint64 sum of IEEE-754 bit patterns: exact,
//     order independent, and sensitive to any single changed bit.
//   - NaN values count toward Checksum but are skipped by Min/Max.

package matrix

import "math"

// Stats is an order-independent summary of a matrix.
type Stats struct {
	Count    int
	Min      float64 // +Inf when there is no non-NaN value
	Max      float64 // -Inf when there is no non-NaN value
	Checksum uint64
}

// SameContent reports whether two summaries describe the same multiset of
// values (as far as Count and Checksum can tell).
func (s Stats) SameContent(o Stats) bool {
	return s.Count == o.Count && s.Checksum == o.Checksum
}

// Stats computes the summary of m. A nil matrix yields the zero-count summary.
// Complexity: O(r*c).
func (m *Dense) Stats() Stats {
	s := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	if m == nil {
		return s
	}
	s.Count = len(m.data)
	m.Do(func(_, _ int, v float64) bool {
		s.Checksum += math.Float64bits(v)
		if math.IsNaN(v) {
			return true
		}
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		return true
	})

	return s
}
