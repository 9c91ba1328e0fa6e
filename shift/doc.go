// SPDX-License-Identifier: MIT

// Package shift replays cyclic tile rotations on a torus grid.
//
// A Command names an Axis and an index. Row-axis commands (RowDown, RowUp)
// rotate the tiles of one grid column by one position along the rows;
// the index selects that column. Column-axis commands (ColRight, ColLeft)
// rotate the tiles of one grid row along the columns; the index selects the
// row. Ranks outside the addressed line do nothing for that command.
//
//	axis       sends to          receives from
//	RowDown    (r+1 mod GR, c)   (r-1 mod GR, c)
//	RowUp      (r-1 mod GR, c)   (r+1 mod GR, c)
//	ColRight   (r, c+1 mod GC)   (r, c-1 mod GC)
//	ColLeft    (r, c-1 mod GC)   (r, c+1 mod GC)
//
// Each participating rank performs one combined send-and-receive, tagged
// with the command's position in the sequence, so a fast rank can never
// consume a tile meant for a later command.
//
// Commands are read from text by ParseCommands, checked against the grid
// by Validate, and broadcast in the length-prefixed form produced by
// EncodeCommands.
package shift
