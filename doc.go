// Package torus is a message-passing engine that shuffles the tiles of a
// dense matrix around a periodic 2-D grid of ranks.
//
// What it does
//
//	A R×C matrix is cut into GR×GC equal tiles, one per rank of a GR×GC
//	torus. A file of commands then rotates single grid rows or columns by
//	one position (with wraparound), and the tiles are gathered back into
//	a R×C result.
//
// Under the hood, everything is organized under these subpackages:
//
//	matrix/   — dense row-major float64 matrix, block copy, binary and text codecs
//	topology/ — the periodic process grid: rank↔coordinate, row/column groups, neighbor shift
//	comm/     — transports (in-memory, gRPC) and the Sendrecv/Bcast/Gather/Barrier operations
//	tiles/    — tile layout, scatter from and gather to the coordinator
//	shift/    — commands, their text and wire forms, and the per-rank interpreter
//	engine/   — the per-rank program, local and multi-process runners, error classes
//	config/   — YAML configuration with environment overrides
//	logging/  — zap logger construction
//
// Quick ASCII example (2×2 grid, one row-down command on column 0):
//
//	  before        after
//	  A │ B         C │ B
//	  ──┼──   →     ──┼──
//	  C │ D         A │ D
//
// The command-line front end lives in cmd/torusshift:
//
//	go install github.com/katalvlaran/torus/cmd/torusshift@latest
//	torusshift generate --seed 1 --commands 1000
//	torusshift run
package torus
