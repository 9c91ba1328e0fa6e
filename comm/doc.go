// SPDX-License-Identifier: MIT

// Package comm is the message-passing substrate of the torus engine.
//
// A Transport moves opaque payloads between ranks; every message is matched
// on the receiving side by (source rank, Tag). Two transports are provided:
//
//   - LocalNetwork: ranks are goroutines in one process, each with a Mailbox.
//   - GRPCTransport: ranks are OS processes; a message is one unary Deliver
//     RPC that lands in the receiver's Mailbox.
//
// Communicator layers the operations the engine needs on top of a Transport:
// point-to-point Send/Recv, the combined Sendrecv exchange, Bcast, Gather and
// Barrier. Sendrecv issues both directions concurrently, so two ranks that
// exchange with each other never wait on one another's send order.
//
// Abort sends a KindAbort notice to every peer. A Mailbox that receives one
// closes, and every pending and later receive on that rank fails with an
// *AbortError.
//
// All blocking calls take a context.Context and return as soon as it is done.
package comm
