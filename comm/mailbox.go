// SPDX-License-Identifier: MIT
package comm

import (
	"context"
	"fmt"
	"sync"
)

// envelopeKey matches a message to the Recv waiting for it.
type envelopeKey struct {
	src int
	tag Tag
}

// Mailbox is the inbound buffer of one rank. Each (source, tag) pair owns a
// one-slot channel created by whichever of Put or Take arrives first, so a
// delivery never waits for the receiver and a receiver never polls.
type Mailbox struct {
	mu     sync.Mutex
	slots  map[envelopeKey]chan []byte
	done   chan struct{}
	closed bool
	cause  error // set by an abort notice; nil after a plain Close
}

// NewMailbox returns an empty, open mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{
		slots: make(map[envelopeKey]chan []byte),
		done:  make(chan struct{}),
	}
}

// slot returns the channel for k, creating it if needed.
// Fails with the close cause once the mailbox is closed.
func (mb *Mailbox) slot(k envelopeKey) (chan []byte, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if mb.closed {
		return nil, mb.errLocked()
	}
	ch, ok := mb.slots[k]
	if !ok {
		ch = make(chan []byte, 1)
		mb.slots[k] = ch
	}

	return ch, nil
}

func (mb *Mailbox) errLocked() error {
	if mb.cause != nil {
		return mb.cause
	}

	return ErrClosed
}

// Put stores payload for a later Take(src, tag). It never blocks.
// Returns ErrClosed after Close and ErrDuplicateMessage when an unconsumed
// message for the same (src, tag) is already stored.
//
// A KindAbort message is not stored: it closes the mailbox, and every
// blocked and later Take fails with an *AbortError holding payload.
func (mb *Mailbox) Put(src int, tag Tag, payload []byte) error {
	if tag.Kind == KindAbort {
		return mb.abort(&AbortError{Src: src, Notice: payload})
	}
	ch, err := mb.slot(envelopeKey{src: src, tag: tag})
	if err != nil {
		return ErrClosed
	}
	select {
	case ch <- payload:
		return nil
	default:
		return fmt.Errorf("%w: from %d %v", ErrDuplicateMessage, src, tag)
	}
}

// Take blocks until the message from src under tag is available, ctx is
// done, or the mailbox is closed.
func (mb *Mailbox) Take(ctx context.Context, src int, tag Tag) ([]byte, error) {
	k := envelopeKey{src: src, tag: tag}
	ch, err := mb.slot(k)
	if err != nil {
		return nil, err
	}
	select {
	case p := <-ch:
		mb.release(k, ch)
		return p, nil
	case <-ctx.Done():
		mb.release(k, ch)
		return nil, ctx.Err()
	case <-mb.done:
		mb.release(k, ch)
		mb.mu.Lock()
		defer mb.mu.Unlock()
		return nil, mb.errLocked()
	}
}

// release drops the slot for k unless a message is still parked in it.
func (mb *Mailbox) release(k envelopeKey, ch chan []byte) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if len(ch) == 0 && mb.slots[k] == ch {
		delete(mb.slots, k)
	}
}

// Pending returns the number of slots that hold an undelivered message or a
// waiting receiver. Used by tests and shutdown diagnostics.
func (mb *Mailbox) Pending() int {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	return len(mb.slots)
}

// Close wakes every blocked Take and rejects further Puts. Idempotent.
func (mb *Mailbox) Close() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.closeLocked()
}

// abort closes the mailbox with cause unless it is already closed.
func (mb *Mailbox) abort(cause error) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if mb.closed {
		return ErrClosed
	}
	mb.cause = cause
	mb.closeLocked()

	return nil
}

func (mb *Mailbox) closeLocked() {
	if mb.closed {
		return
	}
	mb.closed = true
	close(mb.done)
}
