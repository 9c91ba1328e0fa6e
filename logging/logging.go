// SPDX-License-Identifier: MIT

// Package logging builds the zap logger shared by every rank.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger at level ("debug", "info", ...) writing in format
// "json" (production encoder) or "console" (development encoder, colored
// levels, no stack traces below error).
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.Development = false
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}

	return cfg.Build()
}

// ForRank annotates l with the fields every per-rank log line carries.
func ForRank(l *zap.Logger, runID string, rank, row, col int) *zap.Logger {
	return l.With(
		zap.String("run", runID),
		zap.Int("rank", rank),
		zap.Int("row", row),
		zap.Int("col", col),
	)
}
