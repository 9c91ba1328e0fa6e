// SPDX-License-Identifier: MIT

// Command torusshift partitions a matrix over a torus of ranks, replays a
// sequence of row/column tile rotations and writes the resulting matrix.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/katalvlaran/torus/config"
	"github.com/katalvlaran/torus/engine"
	"github.com/katalvlaran/torus/logging"
	"github.com/katalvlaran/torus/matrix"
	"github.com/katalvlaran/torus/tiles"
	"github.com/katalvlaran/torus/topology"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool
	timeout    time.Duration
	runID      string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "torusshift",
	Short: "Torus shift communication engine",
	Long: `torusshift splits a dense matrix into equal tiles over a periodic 2-D grid
of ranks, replays a file of row/column rotation commands and gathers the result.

Command file: whitespace-separated "axis index" pairs, where axis is
  0 row-down, 1 row-up (index selects a grid column)
  2 col-right, 3 col-left (index selects a grid row)`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.Logging.Format)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "torus.yaml", "Configuration file (defaults apply if absent)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Abort the run after this long (0 = no limit)")
	rootCmd.PersistentFlags().StringVar(&runID, "run-id", "", "Run identifier shared by all ranks (default: generated)")

	nodeCmd.Flags().IntVar(&nodeRank, "rank", 0, "Rank of this process")
	nodeCmd.Flags().StringVar(&nodeListen, "listen", "", "Listen address (default: this rank's entry in transport.peers)")

	generateCmd.Flags().Int64Var(&genSeed, "seed", 1, "Random seed")
	generateCmd.Flags().IntVar(&genCommands, "commands", 1000, "Number of commands to generate")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(nodeCmd)
	rootCmd.AddCommand(generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode distinguishes the fatal error classes for scripts.
func exitCode(err error) int {
	switch {
	case errors.Is(err, engine.ErrConfiguration), errors.Is(err, config.ErrInvalidConfig):
		return 2
	case errors.Is(err, engine.ErrTransport):
		return 3
	case errors.Is(err, engine.ErrInputFormat):
		return 4
	default:
		return 1
	}
}

// commandContext honors --timeout and cancels on SIGINT/SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)

	return tctx, func() {
		cancel()
		stop()
	}
}

// layoutFromConfig builds the grid and tile layout for the configured shapes.
func layoutFromConfig(c *config.Config) (tiles.Layout, error) {
	grid, err := topology.NewGrid(c.Grid.Rows, c.Grid.Cols, c.Size())
	if err != nil {
		return tiles.Layout{}, engine.Classify(err)
	}
	layout, err := tiles.NewLayout(grid, c.Matrix.Rows, c.Matrix.Cols)
	if err != nil {
		return tiles.Layout{}, engine.Classify(err)
	}

	return layout, nil
}

// finish writes the result file and echoes its dimensions to stdout.
func finish(cmd *cobra.Command, m *matrix.Dense) error {
	if err := engine.WriteResult(cfg.Matrix.Output, m); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	logger.Info("result written", zap.String("path", cfg.Matrix.Output))
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%d\n%d\n", m.Rows(), m.Cols())

	return err
}
