// SPDX-License-Identifier: MIT

// Package matrix - plain-text matrix format.
//
// Format:
//
//	<rows>
//	<cols>
//	rows*cols whitespace-separated reals, row-major
//
// ReadText accepts any whitespace between tokens (the writer puts one value per
// line); WriteText emits one value per line in fixed-precision scientific
// notation (%.16e by default), which round-trips every float64 exactly.

package matrix

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
)

const (
	ctxReadText  = "ReadText"
	ctxWriteText = "WriteText"
)

// ReadText parses a matrix whose declared shape must equal rows×cols.
// MAIN DESCRIPTION:
//   - Ingest the coordinator's input matrix before any communication starts.
//
// Implementation:
//   - Stage 1: read the two header integers.
//   - Stage 2: compare the declared shape with the configured one.
//   - Stage 3: read exactly rows*cols reals; trailing tokens are ignored.
//
// Errors:
//   - ErrInvalidDimensions when rows/cols are not positive.
//   - ErrInputFormat for a missing/non-integer header, a bad token or short data.
//   - ErrDimensionMismatch when the header differs from rows×cols.
//   - ErrNaNInf for non-finite values under WithValidateNaNInf.
//
// Complexity:
//   - Time O(rows*cols), Space O(rows*cols).
func ReadText(r io.Reader, rows, cols int, opts ...Option) (*Dense, error) {
	m, err := NewDense(rows, cols, opts...)
	if err != nil {
		return nil, err
	}

	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	header := [2]int{}
	for k := range header {
		if !sc.Scan() {
			return nil, fmt.Errorf("%s: reading dimensions: %w", ctxReadText, scanErr(sc))
		}
		header[k], err = strconv.Atoi(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("%s: dimension %q: %w", ctxReadText, sc.Text(), ErrInputFormat)
		}
	}
	if header[0] != rows || header[1] != cols {
		return nil, fmt.Errorf("%s: declared %dx%d, configured %dx%d: %w",
			ctxReadText, header[0], header[1], rows, cols, ErrDimensionMismatch)
	}

	var v float64
	for k := range m.data {
		if !sc.Scan() {
			return nil, fmt.Errorf("%s: value %d of %d: %w", ctxReadText, k, len(m.data), scanErr(sc))
		}
		v, err = strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: value %d %q: %w", ctxReadText, k, sc.Text(), ErrInputFormat)
		}
		if m.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return nil, fmt.Errorf("%s: value %d: %w", ctxReadText, k, ErrNaNInf)
		}
		m.data[k] = v
	}

	return m, nil
}

// scanErr turns a stopped scanner into an error that always matches ErrInputFormat.
func scanErr(sc *bufio.Scanner) error {
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInputFormat, err)
	}

	return fmt.Errorf("%w: unexpected end of input", ErrInputFormat)
}

// WriteText writes m in the text format, one value per line.
// Complexity: O(r*c).
func WriteText(w io.Writer, m *Dense, opts ...Option) error {
	if m == nil {
		return fmt.Errorf("%s: %w", ctxWriteText, ErrNilMatrix)
	}
	o := gatherOptions(opts...)

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d\n%d\n", m.r, m.c); err != nil {
		return fmt.Errorf("%s: %w", ctxWriteText, err)
	}
	buf := make([]byte, 0, 32)
	for _, v := range m.data {
		buf = strconv.AppendFloat(buf[:0], v, 'e', o.precision, 64)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("%s: %w", ctxWriteText, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%s: %w", ctxWriteText, err)
	}

	return nil
}
