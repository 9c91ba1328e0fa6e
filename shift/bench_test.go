// SPDX-License-Identifier: MIT
package shift_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/katalvlaran/torus/shift"
)

// BenchmarkRun_4x12 replays 100 random commands on the production grid shape.
func BenchmarkRun_4x12(b *testing.B) {
	cmds := randomCommands(rand.New(rand.NewSource(1)), 4, 12, 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runShifts(b, 4, 12, cmds)
	}
}

// BenchmarkParseCommands measures reading 1000 command lines.
func BenchmarkParseCommands(b *testing.B) {
	var buf bytes.Buffer
	if err := shift.WriteCommands(&buf, randomCommands(rand.New(rand.NewSource(2)), 4, 12, 1000)); err != nil {
		b.Fatal(err)
	}
	data := buf.Bytes()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := shift.ParseCommands(bytes.NewReader(data), 1000); err != nil {
			b.Fatal(err)
		}
	}
}
