// SPDX-License-Identifier: MIT
package comm

import "fmt"

// Kind names the protocol phase a message belongs to.
type Kind uint8

const (
	// KindScatter carries a tile from the coordinator during distribution.
	KindScatter Kind = iota + 1
	// KindBcast carries a broadcast payload from the root.
	KindBcast
	// KindShift carries a tile during one shift command.
	KindShift
	// KindGather carries a tile to the coordinator during collection.
	KindGather
	// KindBarrier is a rank's arrival notice at a barrier.
	KindBarrier
	// KindRelease is the root's release notice at a barrier.
	KindRelease
	// KindAbort tells a rank that a peer has given up on the run.
	KindAbort
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindScatter:
		return "scatter"
	case KindBcast:
		return "bcast"
	case KindShift:
		return "shift"
	case KindGather:
		return "gather"
	case KindBarrier:
		return "barrier"
	case KindRelease:
		return "release"
	case KindAbort:
		return "abort"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Tag identifies one logical message between a pair of ranks. Seq
// distinguishes repeated operations of the same Kind (for shifts it is the
// command's position in the sequence).
type Tag struct {
	Kind Kind
	Seq  uint32
}

// String formats the tag as "kind#seq".
func (t Tag) String() string {
	return fmt.Sprintf("%v#%d", t.Kind, t.Seq)
}
