// SPDX-License-Identifier: MIT
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/torus/comm"
	"github.com/katalvlaran/torus/config"
	"github.com/katalvlaran/torus/matrix"
	"github.com/katalvlaran/torus/shift"
	"github.com/katalvlaran/torus/tiles"
	"github.com/katalvlaran/torus/topology"
)

// Fatal error classes. Every error returned by RunLocal and RunNode wraps
// exactly one of them.
var (
	// ErrConfiguration covers grid/matrix shapes that cannot work together.
	ErrConfiguration = errors.New("engine: configuration error")
	// ErrTransport covers failed or inconsistent message delivery, and
	// runs aborted through cancellation.
	ErrTransport = errors.New("engine: transport error")
	// ErrInputFormat covers unreadable matrix or command input.
	ErrInputFormat = errors.New("engine: input format error")
)

// ErrAborted indicates that another rank gave up on the run; it is wrapped
// together with that rank's error class.
var ErrAborted = errors.New("engine: run aborted by peer")

var classes = []error{ErrConfiguration, ErrTransport, ErrInputFormat}

// Classify wraps err with its class sentinel. Errors that are already
// classified, and nil, are returned unchanged; unknown errors as well.
// A peer's abort notice takes the class the peer reported.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, class := range classes {
		if errors.Is(err, class) {
			return err
		}
	}
	var ab *comm.AbortError
	if errors.As(err, &ab) {
		class, msg := parseNotice(ab.Notice)
		return fmt.Errorf("%w: %w: rank %d: %s", class, ErrAborted, ab.Src, msg)
	}
	if class := classOf(err); class != nil {
		return fmt.Errorf("%w: %w", class, err)
	}

	return err
}

// classOf maps package sentinels to a class. Transport is checked first
// because a mismatched received tile also wraps a shape error.
func classOf(err error) error {
	switch {
	case errors.Is(err, comm.ErrTransport),
		errors.Is(err, comm.ErrClosed),
		errors.Is(err, comm.ErrDuplicateMessage),
		errors.Is(err, comm.ErrBadFrame),
		errors.Is(err, comm.ErrRunMismatch),
		errors.Is(err, comm.ErrAborted),
		errors.Is(err, tiles.ErrTileShape),
		errors.Is(err, matrix.ErrBadEncoding),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return ErrTransport
	case errors.Is(err, matrix.ErrInputFormat),
		errors.Is(err, matrix.ErrNaNInf),
		errors.Is(err, shift.ErrCommandFormat),
		errors.Is(err, shift.ErrInvalidCommand):
		return ErrInputFormat
	case errors.Is(err, topology.ErrGridShape),
		errors.Is(err, topology.ErrRankOutOfRange),
		errors.Is(err, tiles.ErrIndivisible),
		errors.Is(err, matrix.ErrDimensionMismatch),
		errors.Is(err, matrix.ErrNilMatrix),
		errors.Is(err, comm.ErrBadRank),
		errors.Is(err, config.ErrInvalidConfig):
		return ErrConfiguration
	default:
		return nil
	}
}

// notice encodes a classified error for peers: class code, then message.
func notice(err error) []byte {
	return append([]byte{classCode(err)}, err.Error()...)
}

// parseNotice reverses notice. Unknown or missing codes read as transport
// failures.
func parseNotice(b []byte) (class error, msg string) {
	if len(b) == 0 {
		return ErrTransport, "empty abort notice"
	}
	if class = codeClass(b[0]); class == nil {
		class = ErrTransport
	}

	return class, string(b[1:])
}

// classCode and codeClass carry an error class in an abort notice.
func classCode(err error) byte {
	for i, class := range classes {
		if errors.Is(err, class) {
			return byte(i + 1)
		}
	}

	return byte(len(classes) + 1)
}

func codeClass(code byte) error {
	if code >= 1 && int(code) <= len(classes) {
		return classes[code-1]
	}

	return nil
}
