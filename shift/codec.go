// SPDX-License-Identifier: MIT
package shift

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
)

// commandWireSize is the encoded size of one command: axis and index as uint32.
const commandWireSize = 8

// ParseCommands reads whitespace-separated "axis index" integer pairs.
// With n > 0 exactly n pairs are read and anything after them is ignored;
// with n == 0 pairs are read until EOF. Axis and index ranges are not
// checked here, see Validate.
func ParseCommands(r io.Reader, n int) ([]Command, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative command count %d", ErrCommandFormat, n)
	}
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	next := func() (int, bool, error) {
		if !sc.Scan() {
			return 0, false, sc.Err()
		}
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return 0, false, fmt.Errorf("%w: %q is not an integer", ErrCommandFormat, sc.Text())
		}
		return v, true, nil
	}

	cmds := make([]Command, 0, min(n, 4096))
	for n == 0 || len(cmds) < n {
		axis, ok, err := next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		index, ok, err := next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: command %d has no index", ErrCommandFormat, len(cmds))
		}
		cmds = append(cmds, Command{Axis: Axis(axis), Index: index})
	}
	if n > 0 && len(cmds) < n {
		return nil, fmt.Errorf("%w: read %d commands, want %d", ErrCommandFormat, len(cmds), n)
	}

	return cmds, nil
}

// WriteCommands writes cmds as "axis index" lines, the format ParseCommands reads.
func WriteCommands(w io.Writer, cmds []Command) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 24)
	for _, c := range cmds {
		buf = strconv.AppendInt(buf[:0], int64(c.Axis), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(c.Index), 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// EncodeCommands serializes cmds for broadcast: a little-endian uint32
// count followed by (axis, index) uint32 pairs. Commands must have passed
// Validate, so both fields are non-negative.
func EncodeCommands(cmds []Command) []byte {
	buf := make([]byte, 4, 4+commandWireSize*len(cmds))
	binary.LittleEndian.PutUint32(buf, uint32(len(cmds)))
	for _, c := range cmds {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(c.Axis))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(c.Index))
	}

	return buf
}

// DecodeCommands is the inverse of EncodeCommands. The buffer length must
// match the count prefix exactly.
func DecodeCommands(buf []byte) ([]Command, error) {
	if len(buf) < 4 {
		return nil, fmt.Errorf("%w: command buffer of %d bytes", ErrCommandFormat, len(buf))
	}
	n := int(binary.LittleEndian.Uint32(buf))
	body := buf[4:]
	if len(body) != n*commandWireSize {
		return nil, fmt.Errorf("%w: %d commands need %d bytes, have %d", ErrCommandFormat, n, n*commandWireSize, len(body))
	}
	cmds := make([]Command, n)
	for i := range cmds {
		off := i * commandWireSize
		cmds[i] = Command{
			Axis:  Axis(binary.LittleEndian.Uint32(body[off:])),
			Index: int(binary.LittleEndian.Uint32(body[off+4:])),
		}
	}

	return cmds, nil
}
