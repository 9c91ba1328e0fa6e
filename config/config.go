// SPDX-License-Identifier: MIT

// Package config loads the engine configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig indicates a configuration that cannot drive a run.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Transport kinds.
const (
	TransportLocal = "local"
	TransportGRPC  = "grpc"
)

// Config holds all engine configuration.
type Config struct {
	// Process grid
	Grid GridConfig `yaml:"grid"`

	// Global matrix shape and files
	Matrix MatrixConfig `yaml:"matrix"`

	// Shift command input
	Commands CommandsConfig `yaml:"commands"`

	// Message transport between ranks
	Transport TransportConfig `yaml:"transport"`

	// Run behavior
	Run RunConfig `yaml:"run"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// GridConfig is the process grid shape; rows*cols is the rank count.
type GridConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// MatrixConfig is the global matrix shape and its input/output text files.
type MatrixConfig struct {
	Rows   int    `yaml:"rows"`
	Cols   int    `yaml:"cols"`
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// CommandsConfig locates the command file. Count 0 reads until EOF.
type CommandsConfig struct {
	Path  string `yaml:"path"`
	Count int    `yaml:"count"`
}

// TransportConfig selects how ranks talk to each other.
type TransportConfig struct {
	Kind        string   `yaml:"kind"`  // local, grpc
	Peers       []string `yaml:"peers"` // grpc: host:port per rank, in rank order
	DialTimeout string   `yaml:"dial_timeout"`
}

// RunConfig tunes command replay.
type RunConfig struct {
	BarrierEachCommand bool `yaml:"barrier_each_command"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// DefaultConfig returns the default configuration: a 4×12 grid over a
// 400×600 matrix, all ranks in one process.
func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{Rows: 4, Cols: 12},

		Matrix: MatrixConfig{
			Rows:   400,
			Cols:   600,
			Input:  "notstirred.txt",
			Output: "output.txt",
		},

		Commands: CommandsConfig{
			Path:  "shifts.dat",
			Count: 0,
		},

		Transport: TransportConfig{
			Kind:        TransportLocal,
			DialTimeout: "30s",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults. A
// missing file yields the defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration to a YAML file, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TORUS_MATRIX_INPUT"); v != "" {
		c.Matrix.Input = v
	}
	if v := os.Getenv("TORUS_MATRIX_OUTPUT"); v != "" {
		c.Matrix.Output = v
	}
	if v := os.Getenv("TORUS_COMMANDS"); v != "" {
		c.Commands.Path = v
	}
	if v := os.Getenv("TORUS_TRANSPORT"); v != "" {
		c.Transport.Kind = v
	}
	if v := os.Getenv("TORUS_PEERS"); v != "" {
		var peers []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				peers = append(peers, p)
			}
		}
		c.Transport.Peers = peers
	}
	if v := os.Getenv("TORUS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Size returns the number of ranks the grid needs.
func (c *Config) Size() int { return c.Grid.Rows * c.Grid.Cols }

// GetDialTimeout returns the gRPC dial timeout as a duration.
func (c *Config) GetDialTimeout() time.Duration {
	d, err := time.ParseDuration(c.Transport.DialTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// Validate checks shapes, transport and logging settings. File existence is
// left to the caller.
func (c *Config) Validate() error {
	if c.Grid.Rows < 1 || c.Grid.Cols < 1 {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidConfig, c.Grid.Rows, c.Grid.Cols)
	}
	if c.Matrix.Rows < 1 || c.Matrix.Cols < 1 {
		return fmt.Errorf("%w: matrix %dx%d", ErrInvalidConfig, c.Matrix.Rows, c.Matrix.Cols)
	}
	if c.Matrix.Rows%c.Grid.Rows != 0 || c.Matrix.Cols%c.Grid.Cols != 0 {
		return fmt.Errorf("%w: matrix %dx%d not divisible by grid %dx%d",
			ErrInvalidConfig, c.Matrix.Rows, c.Matrix.Cols, c.Grid.Rows, c.Grid.Cols)
	}
	if c.Commands.Count < 0 {
		return fmt.Errorf("%w: commands.count %d", ErrInvalidConfig, c.Commands.Count)
	}

	switch c.Transport.Kind {
	case TransportLocal:
	case TransportGRPC:
		if len(c.Transport.Peers) != c.Size() {
			return fmt.Errorf("%w: %d peers for %d ranks", ErrInvalidConfig, len(c.Transport.Peers), c.Size())
		}
	default:
		return fmt.Errorf("%w: transport kind %q (valid: %s, %s)", ErrInvalidConfig, c.Transport.Kind, TransportLocal, TransportGRPC)
	}
	if c.Transport.DialTimeout != "" {
		if _, err := time.ParseDuration(c.Transport.DialTimeout); err != nil {
			return fmt.Errorf("%w: transport.dial_timeout: %v", ErrInvalidConfig, err)
		}
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging format %q", ErrInvalidConfig, c.Logging.Format)
	}

	return nil
}
