// SPDX-License-Identifier: MIT
package shift_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/katalvlaran/torus/comm"
	"github.com/katalvlaran/torus/matrix"
	"github.com/katalvlaran/torus/shift"
	"github.com/katalvlaran/torus/topology"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"
)

// runShifts gives every rank of a gr×gc grid a tile tagged with its own rank,
// replays cmds and returns, per grid coordinate, the rank whose tile ended
// up there.
func runShifts(t testing.TB, gr, gc int, cmds []shift.Command, opts ...shift.Option) [][]int {
	t.Helper()
	grid, err := topology.NewGrid(gr, gc, gr*gc)
	require.NoError(t, err)
	network, err := comm.NewLocalNetwork(grid.Size())
	require.NoError(t, err)
	defer network.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	holders := make([]int, grid.Size())
	g, gctx := errgroup.WithContext(ctx)
	for rank := 0; rank < grid.Size(); rank++ {
		ep, err := network.Endpoint(rank)
		require.NoError(t, err)
		g.Go(func() error {
			in, err := shift.NewInterpreter(comm.New(ep), grid, opts...)
			if err != nil {
				return err
			}
			tile, err := matrix.NewDenseFrom(1, 2, []float64{float64(rank), float64(rank) + 0.25})
			if err != nil {
				return err
			}
			out, err := in.Run(gctx, tile, cmds)
			if err != nil {
				return err
			}
			v0, _ := out.At(0, 0)
			v1, _ := out.At(0, 1)
			require.Equal(t, v0+0.25, v1, "tile content must travel intact")
			holders[rank] = int(v0)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	out := make([][]int, gr)
	for r := range out {
		out[r] = holders[r*gc : (r+1)*gc]
	}

	return out
}

// simulate applies cmds to a grid of owner ids without any communication.
func simulate(gr, gc int, cmds []shift.Command) [][]int {
	cells := make([][]int, gr)
	for r := range cells {
		cells[r] = make([]int, gc)
		for c := range cells[r] {
			cells[r][c] = r*gc + c
		}
	}
	for _, cmd := range cmds {
		switch cmd.Axis {
		case shift.RowDown, shift.RowUp:
			col := make([]int, gr)
			for r := 0; r < gr; r++ {
				col[((r+cmd.Axis.Disp())%gr+gr)%gr] = cells[r][cmd.Index]
			}
			for r := 0; r < gr; r++ {
				cells[r][cmd.Index] = col[r]
			}
		case shift.ColRight, shift.ColLeft:
			row := make([]int, gc)
			for c := 0; c < gc; c++ {
				row[((c+cmd.Axis.Disp())%gc+gc)%gc] = cells[cmd.Index][c]
			}
			copy(cells[cmd.Index], row)
		}
	}

	return cells
}

func identity(gr, gc int) [][]int { return simulate(gr, gc, nil) }

func randomCommands(rng *rand.Rand, gr, gc, n int) []shift.Command {
	cmds := make([]shift.Command, n)
	for i := range cmds {
		axis := shift.Axis(rng.Intn(4))
		limit := gc
		if axis.Dim() == topology.DimCol {
			limit = gr
		}
		cmds[i] = shift.Command{Axis: axis, Index: rng.Intn(limit)}
	}

	return cmds
}

//----------------------------------------------------------------------------//
// Single commands
//----------------------------------------------------------------------------//

// TestTwoByTwo_RowDown moves the tile at (0,0) to (1,0) and back to (0,0).
func TestTwoByTwo_RowDown(t *testing.T) {
	got := runShifts(t, 2, 2, []shift.Command{{Axis: shift.RowDown, Index: 0}})
	require.Equal(t, [][]int{{2, 1}, {0, 3}}, got)
}

// TestWraparound checks the edges of a 4-row and a 12-column line.
func TestWraparound(t *testing.T) {
	down := runShifts(t, 4, 3, []shift.Command{{Axis: shift.RowDown, Index: 2}})
	require.Equal(t, 3*3+2, down[0][2], "last grid row routes to row 0")
	require.Equal(t, 0*3+2, down[1][2])

	up := runShifts(t, 4, 3, []shift.Command{{Axis: shift.RowUp, Index: 1}})
	require.Equal(t, 0*3+1, up[3][1], "row 0 routes to the last grid row")
	require.Equal(t, 1*3+1, up[0][1])

	right := runShifts(t, 2, 12, []shift.Command{{Axis: shift.ColRight, Index: 1}})
	require.Equal(t, 12+11, right[1][0])
	left := runShifts(t, 2, 12, []shift.Command{{Axis: shift.ColLeft, Index: 0}})
	require.Equal(t, 0, left[0][11])
}

// TestNonParticipantsUnchanged checks only the addressed line moves.
func TestNonParticipantsUnchanged(t *testing.T) {
	const gr, gc = 3, 4
	for _, cmd := range []shift.Command{
		{Axis: shift.RowDown, Index: 1},
		{Axis: shift.RowUp, Index: 3},
		{Axis: shift.ColRight, Index: 0},
		{Axis: shift.ColLeft, Index: 2},
	} {
		t.Run(cmd.String(), func(t *testing.T) {
			got := runShifts(t, gr, gc, []shift.Command{cmd})
			grid, err := topology.NewGrid(gr, gc, gr*gc)
			require.NoError(t, err)
			for r := 0; r < gr; r++ {
				for c := 0; c < gc; c++ {
					if cmd.Involves(grid, grid.Rank(r, c)) {
						require.NotEqual(t, r*gc+c, got[r][c], "(%d,%d) should move", r, c)
					} else {
						require.Equal(t, r*gc+c, got[r][c], "(%d,%d) should stay", r, c)
					}
				}
			}
		})
	}
}

// TestSelfNeighbor covers lines of length 1 where a rank exchanges with itself.
func TestSelfNeighbor(t *testing.T) {
	got := runShifts(t, 1, 3, []shift.Command{{Axis: shift.RowDown, Index: 2}, {Axis: shift.RowUp, Index: 0}})
	require.Equal(t, identity(1, 3), got)
	got = runShifts(t, 2, 1, []shift.Command{{Axis: shift.ColLeft, Index: 1}})
	require.Equal(t, identity(2, 1), got)
}

//----------------------------------------------------------------------------//
// Sequences
//----------------------------------------------------------------------------//

// TestInverseRestores checks down-then-up and right-then-left are identities.
func TestInverseRestores(t *testing.T) {
	cmds := []shift.Command{
		{Axis: shift.RowDown, Index: 2},
		{Axis: shift.RowUp, Index: 2},
		{Axis: shift.ColRight, Index: 1},
		{Axis: shift.ColLeft, Index: 1},
	}
	require.Equal(t, identity(4, 5), runShifts(t, 4, 5, cmds))
}

// TestFullCycle checks GR row shifts or GC column shifts bring every tile home.
func TestFullCycle(t *testing.T) {
	const gr, gc = 4, 6
	var cmds []shift.Command
	for i := 0; i < gr; i++ {
		cmds = append(cmds, shift.Command{Axis: shift.RowDown, Index: 5})
	}
	for i := 0; i < gc; i++ {
		cmds = append(cmds, shift.Command{Axis: shift.ColLeft, Index: 3})
	}
	require.Equal(t, identity(gr, gc), runShifts(t, gr, gc, cmds))

	// one short of a cycle leaves the line rotated
	require.NotEqual(t, identity(gr, gc), runShifts(t, gr, gc, cmds[:gr-1]))
}

// TestRun_MatchesSimulation replays random sequences with and without barriers.
func TestRun_MatchesSimulation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, shape := range [][2]int{{2, 2}, {3, 4}, {4, 12}, {1, 5}} {
		cmds := randomCommands(rng, shape[0], shape[1], 60)
		want := simulate(shape[0], shape[1], cmds)
		require.Equal(t, want, runShifts(t, shape[0], shape[1], cmds))
		require.Equal(t, want, runShifts(t, shape[0], shape[1], cmds,
			shift.WithBarrier(), shift.WithLogger(zaptest.NewLogger(t))))
	}
}

// TestRun_DebugLogsSmallTiles writes the received tile into the debug entry.
func TestRun_DebugLogsSmallTiles(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	runShifts(t, 1, 2, []shift.Command{{Axis: shift.ColRight, Index: 0}}, shift.WithLogger(zap.New(core)))

	applied := logs.FilterMessage("shift applied").All()
	require.Len(t, applied, 2)
	for _, e := range applied {
		tile, ok := e.ContextMap()["tile"].(string)
		require.True(t, ok, "tile field present")
		require.Contains(t, tile, ".25]")
	}
}

//----------------------------------------------------------------------------//
// Errors
//----------------------------------------------------------------------------//

// TestApply_Errors covers an unknown axis, a mismatched reply and cancellation.
func TestApply_Errors(t *testing.T) {
	grid, err := topology.NewGrid(1, 2, 2)
	require.NoError(t, err)
	network, err := comm.NewLocalNetwork(2)
	require.NoError(t, err)
	defer network.Close()
	ep0, _ := network.Endpoint(0)
	ep1, _ := network.Endpoint(1)
	c1 := comm.New(ep1)
	in, err := shift.NewInterpreter(comm.New(ep0), grid)
	require.NoError(t, err)
	tile, err := matrix.NewDense(2, 2)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = in.Apply(ctx, tile, shift.Command{Axis: 9}, 0)
	require.ErrorIs(t, err, shift.ErrInvalidCommand)

	// rank 1 answers with a tile of the wrong shape
	wrong, _ := matrix.NewDense(1, 3)
	buf, _ := wrong.MarshalBinary()
	require.NoError(t, c1.Send(ctx, 0, comm.Tag{Kind: comm.KindShift, Seq: 1}, buf))
	_, err = in.Apply(ctx, tile, shift.Command{Axis: shift.ColRight, Index: 0}, 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "tile shape mismatch")

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = in.Apply(cctx, tile, shift.Command{Axis: shift.ColLeft, Index: 0}, 2)
	require.ErrorIs(t, err, context.Canceled)

	_, err = shift.NewInterpreter(comm.New(ep1), mustGrid(t, 1, 1))
	require.ErrorIs(t, err, topology.ErrRankOutOfRange)
}

func mustGrid(t *testing.T, r, c int) *topology.Grid {
	t.Helper()
	g, err := topology.NewGrid(r, c, r*c)
	require.NoError(t, err)

	return g
}
