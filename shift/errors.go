// SPDX-License-Identifier: MIT
package shift

import "errors"

var (
	// ErrCommandFormat indicates unreadable or truncated command input.
	ErrCommandFormat = errors.New("shift: malformed command input")
	// ErrInvalidCommand indicates an unknown axis or an index outside the grid.
	ErrInvalidCommand = errors.New("shift: invalid command")
)
