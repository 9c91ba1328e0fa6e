// SPDX-License-Identifier: MIT

// Package topology describes the logical process grid of the torus engine.
//
// A Grid arranges P = rows×cols ranks in row-major order on a 2-D periodic
// lattice (a torus):
//
//	rank = row*cols + col
//
// Coordinate arithmetic wraps on both axes, so the last row is adjacent to
// row 0 and the last column is adjacent to column 0. The Grid is the single
// source of truth for rank↔coordinate translation and neighbor arithmetic;
// callers never compute neighbors themselves, they ask Shift.
//
// Row and column groups (RowGroup, ColGroup) scope an exchange to one line of
// the grid.
package topology
