// SPDX-License-Identifier: MIT
package comm

import (
	"errors"
	"fmt"
)

// Sentinel errors for comm operations.
var (
	// ErrTransport indicates a failed delivery or an unreachable peer.
	ErrTransport = errors.New("comm: transport failure")
	// ErrClosed indicates use of a transport or mailbox after Close.
	ErrClosed = errors.New("comm: transport closed")
	// ErrDuplicateMessage indicates a second message for a (source, tag) pair
	// that has not been received yet; the protocol never produces one.
	ErrDuplicateMessage = errors.New("comm: duplicate message for source and tag")
	// ErrBadRank indicates a peer rank outside [0, size).
	ErrBadRank = errors.New("comm: rank out of range")
	// ErrBadFrame indicates an envelope that cannot be decoded.
	ErrBadFrame = errors.New("comm: malformed frame")
	// ErrRunMismatch indicates a message from a different run of the engine.
	ErrRunMismatch = errors.New("comm: message from another run")
	// ErrAborted indicates that a peer aborted the run; see AbortError.
	ErrAborted = errors.New("comm: run aborted by peer")
)

// AbortError is returned by every receive on a rank after a peer's abort
// notice reached it. Notice is the opaque payload the peer sent.
type AbortError struct {
	Src    int
	Notice []byte
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("%v: rank %d", ErrAborted, e.Src)
}

// Unwrap returns ErrAborted.
func (e *AbortError) Unwrap() error { return ErrAborted }
