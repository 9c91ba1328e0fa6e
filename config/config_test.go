// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// clearEnv keeps the caller's environment out of the test.
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"TORUS_MATRIX_INPUT", "TORUS_MATRIX_OUTPUT", "TORUS_COMMANDS",
		"TORUS_TRANSPORT", "TORUS_PEERS", "TORUS_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, GridConfig{Rows: 4, Cols: 12}, cfg.Grid)
	require.Equal(t, 400, cfg.Matrix.Rows)
	require.Equal(t, 600, cfg.Matrix.Cols)
	require.Equal(t, 48, cfg.Size())
	require.Equal(t, TransportLocal, cfg.Transport.Kind)
	require.Equal(t, 30*time.Second, cfg.GetDialTimeout())
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "torus.yaml")

	cfg := DefaultConfig()
	cfg.Grid = GridConfig{Rows: 2, Cols: 2}
	cfg.Matrix.Rows, cfg.Matrix.Cols = 4, 4
	cfg.Transport.Kind = TransportGRPC
	cfg.Transport.Peers = []string{"a:1", "b:2", "c:3", "d:4"}
	cfg.Run.BarrierEachCommand = true
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
	require.NoError(t, loaded.Validate())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "torus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("commands:\n  count: 1000\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1000, cfg.Commands.Count)
	require.Equal(t, "shifts.dat", cfg.Commands.Path)
	require.Equal(t, 4, cfg.Grid.Rows)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "torus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid: [1, 2\n"), 0644))

	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TORUS_MATRIX_INPUT", "in.txt")
	t.Setenv("TORUS_MATRIX_OUTPUT", "out.txt")
	t.Setenv("TORUS_COMMANDS", "cmds.txt")
	t.Setenv("TORUS_TRANSPORT", "grpc")
	t.Setenv("TORUS_PEERS", " h0:7000, h1:7001 ,,")
	t.Setenv("TORUS_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, "in.txt", cfg.Matrix.Input)
	require.Equal(t, "out.txt", cfg.Matrix.Output)
	require.Equal(t, "cmds.txt", cfg.Commands.Path)
	require.Equal(t, TransportGRPC, cfg.Transport.Kind)
	require.Equal(t, []string{"h0:7000", "h1:7001"}, cfg.Transport.Peers)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate_Errors(t *testing.T) {
	cases := map[string]func(c *Config){
		"ZeroGrid":       func(c *Config) { c.Grid.Rows = 0 },
		"ZeroMatrix":     func(c *Config) { c.Matrix.Cols = 0 },
		"Indivisible":    func(c *Config) { c.Matrix.Rows = 401 },
		"NegativeCount":  func(c *Config) { c.Commands.Count = -1 },
		"UnknownKind":    func(c *Config) { c.Transport.Kind = "mpi" },
		"MissingPeers":   func(c *Config) { c.Transport.Kind = TransportGRPC },
		"BadDialTimeout": func(c *Config) { c.Transport.DialTimeout = "soon" },
		"BadLogFormat":   func(c *Config) { c.Logging.Format = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestGetDialTimeout_Fallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Transport.DialTimeout = "250ms"
	require.Equal(t, 250*time.Millisecond, cfg.GetDialTimeout())
	cfg.Transport.DialTimeout = "never"
	require.Equal(t, 30*time.Second, cfg.GetDialTimeout())
}
