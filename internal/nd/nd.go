// Package nd holds the fixed-size vector/matrix math shared by every
// renderable object: plane rotations, the viewport slice basis and the
// perspective projection used for wireframes.
package nd

import "math"

type Real = float64

// Supported dimension range. All per-scene vectors share one dimension
// until an explicit dimension change.
const (
	MinDim = 2
	MaxDim = 11

	// MaxPlanes is the number of coordinate planes at MaxDim: N(N-1)/2.
	MaxPlanes = MaxDim * (MaxDim - 1) / 2
)

// Perspective projection defaults (wireframe path).
const (
	ProjectionDistance = 4.0
	minSafeDistance    = 0.01
)

func isFinite(x Real) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

// ValidDim reports whether n is a renderable dimension.
func ValidDim(n int) bool { return n >= MinDim && n <= MaxDim }
