// SPDX-License-Identifier: MIT
package matrix_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/torus/matrix"
)

// mustDense allocates an r×c Dense or fails the benchmark.
func mustDense(b *testing.B, r, c int) *matrix.Dense {
	b.Helper()
	m, err := matrix.NewDense(r, c)
	if err != nil {
		b.Fatalf("NewDense(%d,%d): %v", r, c, err)
	}

	return m
}

// fillDenseRand fills d with deterministic values in [-1, 1).
func fillDenseRand(b *testing.B, d *matrix.Dense, seed int64) {
	b.Helper()
	rng := rand.New(rand.NewSource(seed))
	if err := d.Apply(func(_, _ int, _ float64) float64 { return rng.Float64()*2 - 1 }); err != nil {
		b.Fatal(err)
	}
}
