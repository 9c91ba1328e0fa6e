// SPDX-License-Identifier: MIT
package comm

import (
	"context"
	"fmt"
)

// LocalNetwork connects size in-process ranks through their mailboxes.
// Payloads are copied on Send so ranks never share a buffer.
type LocalNetwork struct {
	boxes []*Mailbox
}

// NewLocalNetwork creates a network of size ranks (size >= 1).
func NewLocalNetwork(size int) (*LocalNetwork, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: network size %d", ErrBadRank, size)
	}
	boxes := make([]*Mailbox, size)
	for i := range boxes {
		boxes[i] = NewMailbox()
	}

	return &LocalNetwork{boxes: boxes}, nil
}

// Size returns the number of ranks.
func (n *LocalNetwork) Size() int { return len(n.boxes) }

// Endpoint returns the Transport for rank.
func (n *LocalNetwork) Endpoint(rank int) (Transport, error) {
	if rank < 0 || rank >= len(n.boxes) {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrBadRank, rank, len(n.boxes))
	}

	return &localEndpoint{net: n, rank: rank}, nil
}

// Close closes every mailbox, waking all blocked receivers.
func (n *LocalNetwork) Close() {
	for _, b := range n.boxes {
		b.Close()
	}
}

type localEndpoint struct {
	net  *LocalNetwork
	rank int
}

var _ Transport = (*localEndpoint)(nil)

func (e *localEndpoint) Rank() int { return e.rank }

func (e *localEndpoint) Size() int { return len(e.net.boxes) }

func (e *localEndpoint) Send(ctx context.Context, dst int, tag Tag, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dst < 0 || dst >= len(e.net.boxes) {
		return fmt.Errorf("%w: send to %d", ErrBadRank, dst)
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)

	return e.net.boxes[dst].Put(e.rank, tag, cp)
}

func (e *localEndpoint) Recv(ctx context.Context, src int, tag Tag) ([]byte, error) {
	if src < 0 || src >= len(e.net.boxes) {
		return nil, fmt.Errorf("%w: recv from %d", ErrBadRank, src)
	}

	return e.net.boxes[e.rank].Take(ctx, src, tag)
}

// Close closes this rank's inbox only; peers sending to it get ErrClosed.
func (e *localEndpoint) Close() error {
	e.net.boxes[e.rank].Close()

	return nil
}
