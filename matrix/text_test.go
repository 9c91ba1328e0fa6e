// SPDX-License-Identifier: MIT
package matrix_test

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/katalvlaran/torus/matrix"
	"github.com/stretchr/testify/require"
)

// TestReadText parses a well-formed matrix with mixed whitespace.
func TestReadText(t *testing.T) {
	in := "2\n3\n1 2 3\n4.5\t-6e2\n7\n"
	m, err := matrix.ReadText(strings.NewReader(in), 2, 3)
	require.NoError(t, err)

	want, _ := matrix.NewDenseFrom(2, 3, []float64{1, 2, 3, 4.5, -600, 7})
	require.True(t, want.Equal(m), "got\n%v", m)
}

// TestReadTextErrors checks every rejection path against its sentinel.
func TestReadTextErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		opts []matrix.Option
		err  error
	}{
		{"Empty", "", nil, matrix.ErrInputFormat},
		{"MissingCols", "2\n", nil, matrix.ErrInputFormat},
		{"BadHeader", "two\n2\n", nil, matrix.ErrInputFormat},
		{"DimMismatch", "3\n2\n1 2 3 4 5 6", nil, matrix.ErrDimensionMismatch},
		{"BadValue", "2\n2\n1 2 x 4", nil, matrix.ErrInputFormat},
		{"ShortData", "2\n2\n1 2 3", nil, matrix.ErrInputFormat},
		{"NaNRejected", "2\n2\n1 NaN 3 4", []matrix.Option{matrix.WithValidateNaNInf()}, matrix.ErrNaNInf},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := matrix.ReadText(strings.NewReader(tc.in), 2, 2, tc.opts...)
			if !errors.Is(err, tc.err) {
				t.Errorf("ReadText(%q) error = %v; want %v", tc.in, err, tc.err)
			}
		})
	}

	_, err := matrix.ReadText(strings.NewReader("0\n0\n"), 0, 0)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestWriteTextFormat pins the exact output layout.
func TestWriteTextFormat(t *testing.T) {
	m, _ := matrix.NewDenseFrom(1, 2, []float64{1, -2.5})

	var buf bytes.Buffer
	require.NoError(t, matrix.WriteText(&buf, m))
	require.Equal(t, "1\n2\n1.0000000000000000e+00\n-2.5000000000000000e+00\n", buf.String())

	buf.Reset()
	require.NoError(t, matrix.WriteText(&buf, m, matrix.WithPrecision(2)))
	require.Equal(t, "1\n2\n1.00e+00\n-2.50e+00\n", buf.String())

	require.ErrorIs(t, matrix.WriteText(&buf, nil), matrix.ErrNilMatrix)
	require.Panics(t, func() { matrix.WithPrecision(-1) })
}

// TestTextRoundTrip confirms the default precision reproduces random values exactly.
func TestTextRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m, err := matrix.NewDense(5, 4)
	require.NoError(t, err)
	require.NoError(t, m.Apply(func(_, _ int, _ float64) float64 { return rng.NormFloat64() * 1e6 }))

	var buf bytes.Buffer
	require.NoError(t, matrix.WriteText(&buf, m))
	got, err := matrix.ReadText(&buf, 5, 4)
	require.NoError(t, err)
	require.True(t, m.Equal(got))
}
