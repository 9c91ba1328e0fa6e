// SPDX-License-Identifier: MIT

// Package tiles partitions a global matrix into equal tiles over a process
// grid and assembles it back.
//
// A Layout fixes the global shape R×C and derives the tile shape
// LR = R/GR, LC = C/GC. The tile owned by grid coordinate (r, c) covers
// global rows [r*LR, (r+1)*LR) and columns [c*LC, (c+1)*LC).
//
// Distribute scatters the tiles from the coordinator; Collect gathers every
// rank's current tile back and places it at the block of the rank that
// holds it, whatever tile content that rank ended up with.
package tiles
