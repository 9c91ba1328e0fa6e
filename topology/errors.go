// SPDX-License-Identifier: MIT
package topology

import "errors"

// Sentinel errors for topology operations.
var (
	// ErrGridShape indicates non-positive extents or rows*cols != number of ranks.
	ErrGridShape = errors.New("topology: grid shape does not match process count")
	// ErrRankOutOfRange indicates a rank outside [0, size).
	ErrRankOutOfRange = errors.New("topology: rank out of range")
	// ErrUnknownDim indicates a dimension other than DimRow or DimCol.
	ErrUnknownDim = errors.New("topology: unknown dimension")
)
