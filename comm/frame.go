// SPDX-License-Identifier: MIT
package comm

import (
	"encoding/binary"
	"fmt"
)

// Envelope layout on the wire (little-endian):
//
//	[0:4]   source rank (uint32)
//	[4]     tag kind
//	[5:8]   reserved, zero
//	[8:12]  tag sequence (uint32)
//	[12:]   payload
const frameHeaderSize = 12

// encodeFrame prepends the envelope header to payload.
func encodeFrame(src int, tag Tag, payload []byte) []byte {
	buf := make([]byte, frameHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(src))
	buf[4] = byte(tag.Kind)
	binary.LittleEndian.PutUint32(buf[8:12], tag.Seq)
	copy(buf[frameHeaderSize:], payload)

	return buf
}

// decodeFrame splits an envelope into its header fields and payload.
// The returned payload aliases buf.
func decodeFrame(buf []byte) (src int, tag Tag, payload []byte, err error) {
	if len(buf) < frameHeaderSize {
		return 0, Tag{}, nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrBadFrame, len(buf), frameHeaderSize)
	}
	if buf[5]|buf[6]|buf[7] != 0 {
		return 0, Tag{}, nil, fmt.Errorf("%w: reserved bytes set", ErrBadFrame)
	}
	kind := Kind(buf[4])
	if kind < KindScatter || kind > KindAbort {
		return 0, Tag{}, nil, fmt.Errorf("%w: unknown kind %d", ErrBadFrame, buf[4])
	}
	src = int(binary.LittleEndian.Uint32(buf[0:4]))
	tag = Tag{Kind: kind, Seq: binary.LittleEndian.Uint32(buf[8:12])}

	return src, tag, buf[frameHeaderSize:], nil
}
