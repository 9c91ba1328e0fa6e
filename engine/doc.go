// SPDX-License-Identifier: MIT

// Package engine runs the torus shift program on every rank.
//
// Every rank executes the same Program:
//
//  1. the coordinator (rank 0) validates its Job and broadcasts a header
//     holding either the command sequence or an abort notice;
//  2. tiles.Distribute hands each rank its tile;
//  3. shift.Interpreter replays the commands;
//  4. tiles.Collect assembles the final matrix at the coordinator.
//
// RunLocal runs all ranks as goroutines over an in-memory network; the first
// failure cancels the others. RunNode runs one rank of a multi-process run
// over gRPC; a rank that fails sends an abort notice to its peers, which then
// fail with its class wrapped with ErrAborted. Failures are reported as one
// of three classes: ErrConfiguration, ErrTransport or ErrInputFormat.
package engine
