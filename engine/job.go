// SPDX-License-Identifier: MIT
package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/torus/matrix"
	"github.com/katalvlaran/torus/shift"
	"github.com/katalvlaran/torus/tiles"
)

// ReadJob parses the matrix text and the command text for layout, reading
// exactly count commands (count 0: until EOF), and validates both.
func ReadJob(matrixText, commandText io.Reader, layout tiles.Layout, count int) (*Job, error) {
	rows, cols := layout.Shape()
	m, err := matrix.ReadText(matrixText, rows, cols)
	if err != nil {
		return nil, Classify(fmt.Errorf("matrix input: %w", err))
	}
	cmds, err := shift.ParseCommands(commandText, count)
	if err != nil {
		return nil, Classify(fmt.Errorf("command input: %w", err))
	}
	if err := shift.Validate(cmds, layout.Grid()); err != nil {
		return nil, Classify(err)
	}

	return &Job{Matrix: m, Commands: cmds}, nil
}

// LoadJob is ReadJob over two files.
func LoadJob(matrixPath, commandPath string, layout tiles.Layout, count int) (*Job, error) {
	mf, err := os.Open(matrixPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputFormat, err)
	}
	defer mf.Close()
	cf, err := os.Open(commandPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputFormat, err)
	}
	defer cf.Close()

	return ReadJob(mf, cf, layout, count)
}

// WriteResult writes m as matrix text to path.
func WriteResult(path string, m *matrix.Dense) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return matrix.WriteText(f, m)
}
