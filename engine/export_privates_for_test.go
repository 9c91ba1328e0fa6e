// SPDX-License-Identifier: MIT
package engine

// Notice exposes the abort notice encoding to external tests.
func Notice(err error) []byte { return notice(err) }
