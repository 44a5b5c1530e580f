package nd

import "math"

// Perspective projects an N-D point to viewport 3-space for wireframe
// rendering. Coordinates beyond the third collapse into one "higher
// depth" h = Σ p[3..dim) / √(dim-3); the output is the leading three
// coordinates scaled by 1/(dist−h). The divisor is clamped
// sign-preserving to ±0.01 so vertices crossing the projection plane
// cannot blow up the frame.
func Perspective(p Point, dist Real) [3]Real {
	d := dist - HigherDepth(p)
	if math.Abs(d) < minSafeDistance {
		if d >= 0 {
			d = minSafeDistance
		} else {
			d = -minSafeDistance
		}
	}
	s := 1 / d
	return [3]Real{p.E[0] * s, p.E[1] * s, p.E[2] * s}
}

// HigherDepth collapses the coordinates beyond the third into the
// scalar depth Perspective divides by: Σ p[3..dim) / √(dim-3). Zero
// for dim ≤ 3.
func HigherDepth(p Point) Real {
	if p.Dim <= 3 {
		return 0
	}
	h := 0.0
	for k := 3; k < p.Dim; k++ {
		h += p.E[k]
	}
	return h / math.Sqrt(Real(p.Dim-3))
}
