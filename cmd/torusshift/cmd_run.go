// SPDX-License-Identifier: MIT
package main

import (
	"github.com/katalvlaran/torus/config"
	"github.com/katalvlaran/torus/engine"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runCmd runs every rank in this process
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all ranks in one process",
	Long: `Reads matrix.input and commands.path, runs grid.rows*grid.cols ranks as
goroutines over an in-memory network, writes matrix.output and prints the
output dimensions.`,
	Args: cobra.NoArgs,
	RunE: runLocal,
}

func runLocal(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	if cfg.Transport.Kind != config.TransportLocal {
		logger.Warn("run always uses the in-memory transport; use node for grpc",
			zap.String("transport", cfg.Transport.Kind))
	}
	layout, err := layoutFromConfig(cfg)
	if err != nil {
		return err
	}
	job, err := engine.LoadJob(cfg.Matrix.Input, cfg.Commands.Path, layout, cfg.Commands.Count)
	if err != nil {
		return err
	}
	logger.Info("job loaded",
		zap.String("matrix", cfg.Matrix.Input),
		zap.String("commands", cfg.Commands.Path),
		zap.Int("count", len(job.Commands)),
	)

	out, err := engine.RunLocal(ctx, layout, job,
		engine.WithLogger(logger),
		engine.WithBarrier(cfg.Run.BarrierEachCommand),
		engine.WithRunID(runID),
	)
	if err != nil {
		return err
	}

	return finish(cmd, out)
}
