// Package fractal implements the distance-estimated families the viewer
// can render. Each family carries two synchronized renditions of the same
// iteration: a GLSL body emitted into composed programs, and a float32
// mirror used by the offline renderer. Both must walk the identical
// formula, or CPU renders stop matching the screen.
package fractal

import "github.com/lukaszgryglicki/ndview/internal/shader"

// Kind tells the raymarcher how much to trust a family's distance value.
type Kind uint8

const (
	// KindTrueDistance marks analytic estimators that track the orbit
	// derivative; their value bounds the real distance to the set.
	KindTrueDistance Kind = iota
	// KindField marks heuristic proxies with no derivative backing.
	// Marching one must scale steps by a safety factor below one.
	KindField
)

func (k Kind) String() string {
	if k == KindField {
		return "field"
	}
	return "true-distance"
}

// Params are the universal iteration knobs shared by every family. They
// mirror the uIterations and uBailout2 uniforms.
type Params struct {
	Iterations int
	Bailout2   float32
}

// Sample is one field evaluation: the distance value (or field proxy),
// the orbit-trap channel and the smooth escape count.
type Sample struct {
	Dist   float32
	Trap   float32
	Escape float32
}

// Estimator extends the shader-side family contract with the CPU mirror
// and the marching metadata.
type Estimator interface {
	shader.Family

	Kind() Kind
	// DefaultSafety is the per-step scale this family wants. Field
	// families report values strictly below one.
	DefaultSafety() float64
	// Evaluate runs the iteration at an N-dimensional point, len(p)
	// giving the dimension. It mirrors the emitted GLSL exactly.
	Evaluate(p []float32, u Params) Sample
	// UniformValues packs this family's uniform data as scalars, in
	// Uniforms(dim) order, one value per UniformSpec float.
	UniformValues(dim int) []float32
}

// AsFamilies adapts a registry slice for composer registration.
func AsFamilies(ests []Estimator) []shader.Family {
	fams := make([]shader.Family, len(ests))
	for i, e := range ests {
		fams[i] = e
	}
	return fams
}
