// SPDX-License-Identifier: MIT
package comm

import "context"

// Transport moves payloads between the ranks of one run.
//
// Send may return before the peer calls Recv (messages are buffered at the
// receiver), and may be called concurrently with Recv. For a given
// (destination, tag) at most one message may be in flight.
type Transport interface {
	// Rank returns the local rank, 0 <= Rank() < Size().
	Rank() int
	// Size returns the number of ranks.
	Size() int
	// Send delivers payload to dst under tag. The transport does not retain payload.
	Send(ctx context.Context, dst int, tag Tag, payload []byte) error
	// Recv blocks until the message from src under tag arrives.
	Recv(ctx context.Context, src int, tag Tag) ([]byte, error)
	// Close releases resources; blocked Recv calls return ErrClosed.
	Close() error
}
