// SPDX-License-Identifier: MIT
package comm

// Test hooks for the wire envelope.
var (
	EncodeFrame = encodeFrame
	DecodeFrame = decodeFrame
)
