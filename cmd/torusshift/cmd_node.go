// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"net"

	"github.com/katalvlaran/torus/config"
	"github.com/katalvlaran/torus/engine"
	"github.com/katalvlaran/torus/topology"
	"github.com/spf13/cobra"
)

var (
	nodeRank   int
	nodeListen string
)

// nodeCmd runs a single rank of a multi-process run
var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Run one rank of a multi-process run over gRPC",
	Long: `Starts rank --rank of the grid. Every rank listens on its entry in
transport.peers (or --listen) and exchanges tiles with the others over gRPC.
Rank 0 reads the inputs and writes the output.

Example (2x2 grid, four shells):
  torusshift node --rank 0 -c torus.yaml
  torusshift node --rank 1 -c torus.yaml
  ...`,
	Args: cobra.NoArgs,
	RunE: runNode,
}

func runNode(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	if cfg.Transport.Kind != config.TransportGRPC {
		return fmt.Errorf("%w: node requires transport.kind %q", config.ErrInvalidConfig, config.TransportGRPC)
	}
	if nodeRank < 0 || nodeRank >= len(cfg.Transport.Peers) {
		return fmt.Errorf("%w: rank %d not in [0,%d)", config.ErrInvalidConfig, nodeRank, len(cfg.Transport.Peers))
	}
	layout, err := layoutFromConfig(cfg)
	if err != nil {
		return err
	}

	addr := nodeListen
	if addr == "" {
		addr = cfg.Transport.Peers[nodeRank]
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: listen on %s: %w", engine.ErrTransport, addr, err)
	}

	load := func() (*engine.Job, error) {
		return engine.LoadJob(cfg.Matrix.Input, cfg.Commands.Path, layout, cfg.Commands.Count)
	}
	out, err := engine.RunNode(ctx, nodeRank, lis, cfg.Transport.Peers, layout, load,
		engine.WithLogger(logger),
		engine.WithBarrier(cfg.Run.BarrierEachCommand),
		engine.WithRunID(runID),
		engine.WithDialTimeout(cfg.GetDialTimeout()),
	)
	if err != nil {
		return err
	}
	if nodeRank != topology.Coordinator {
		return nil
	}

	return finish(cmd, out)
}
