// SPDX-License-Identifier: MIT
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/torus/matrix"
	"github.com/stretchr/testify/require"
)

// TestStats_PermutationInvariant swaps two blocks and expects the same content.
func TestStats_PermutationInvariant(t *testing.T) {
	m := seq(t, 4, 6)
	want := m.Stats()
	require.Equal(t, 24, want.Count)
	require.Equal(t, 0.0, want.Min)
	require.Equal(t, 23.0, want.Max)

	left, err := m.Block(0, 0, 4, 3)
	require.NoError(t, err)
	right, err := m.Block(0, 3, 4, 3)
	require.NoError(t, err)
	swapped := m.Clone()
	require.NoError(t, swapped.SetBlock(0, 0, right))
	require.NoError(t, swapped.SetBlock(0, 3, left))

	require.False(t, m.Equal(swapped))
	require.True(t, want.SameContent(swapped.Stats()))

	require.NoError(t, swapped.Set(2, 2, 100))
	require.False(t, want.SameContent(swapped.Stats()))
}

// TestStats_NaNAndNil covers non-finite values and a nil receiver.
func TestStats_NaNAndNil(t *testing.T) {
	m, err := matrix.NewDenseFrom(1, 3, []float64{math.NaN(), -2, math.Inf(1)})
	require.NoError(t, err)
	s := m.Stats()
	require.Equal(t, -2.0, s.Min)
	require.True(t, math.IsInf(s.Max, 1))

	var nilM *matrix.Dense
	z := nilM.Stats()
	require.Zero(t, z.Count)
	require.True(t, math.IsInf(z.Min, 1))
}
