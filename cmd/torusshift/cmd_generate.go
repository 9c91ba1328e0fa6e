// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/katalvlaran/torus/matrix"
	"github.com/katalvlaran/torus/shift"
	"github.com/katalvlaran/torus/topology"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	genSeed     int64
	genCommands int
)

// generateCmd writes reproducible test inputs for the configured shapes
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a random input matrix and command file",
	Long: `Writes matrix.input (matrix.rows x matrix.cols values in [-1, 1)) and
commands.path (--commands valid commands for the configured grid).`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if genCommands < 0 {
		return fmt.Errorf("--commands must be >= 0, got %d", genCommands)
	}
	rng := rand.New(rand.NewSource(genSeed))

	m, err := matrix.NewDense(cfg.Matrix.Rows, cfg.Matrix.Cols)
	if err != nil {
		return err
	}
	if err := m.Apply(func(_, _ int, _ float64) float64 { return rng.Float64()*2 - 1 }); err != nil {
		return err
	}
	if err := writeFile(cfg.Matrix.Input, func(f *os.File) error { return matrix.WriteText(f, m) }); err != nil {
		return err
	}

	cmds := make([]shift.Command, genCommands)
	for i := range cmds {
		axis := shift.Axis(rng.Intn(4))
		limit := cfg.Grid.Cols
		if axis.Dim() == topology.DimCol {
			limit = cfg.Grid.Rows
		}
		cmds[i] = shift.Command{Axis: axis, Index: rng.Intn(limit)}
	}
	if err := writeFile(cfg.Commands.Path, func(f *os.File) error { return shift.WriteCommands(f, cmds) }); err != nil {
		return err
	}

	logger.Info("inputs generated",
		zap.String("matrix", cfg.Matrix.Input),
		zap.String("commands", cfg.Commands.Path),
		zap.Int("count", genCommands),
		zap.Int64("seed", genSeed),
	)

	return nil
}

func writeFile(path string, write func(f *os.File) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return write(f)
}
