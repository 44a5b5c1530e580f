package fractal

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/lukaszgryglicki/ndview/internal/nd"
	"github.com/lukaszgryglicki/ndview/internal/shader"
)

// PseudoKleinian alternates a box fold with a conditional sphere
// inversion around the origin. The derivative tracking is exact for
// both steps, but the final radius-over-derivative estimate is known to
// overshoot near the limit set, so the family asks for a step margin.
type PseudoKleinian struct {
	Scale float64
	Clamp float64
}

func NewPseudoKleinian(scale, clamp float64) (*PseudoKleinian, error) {
	if scale <= 0 || scale > 4 {
		return nil, fmt.Errorf("pseudokleinian: scale %v outside (0,4]", scale)
	}
	if clamp <= 0 || clamp > 4 {
		return nil, fmt.Errorf("pseudokleinian: clamp %v outside (0,4]", clamp)
	}
	return &PseudoKleinian{Scale: scale, Clamp: clamp}, nil
}

func (f *PseudoKleinian) Name() string           { return "pseudokleinian" }
func (f *PseudoKleinian) DimRange() (int, int)   { return 3, nd.MaxDim }
func (f *PseudoKleinian) Kind() Kind             { return KindTrueDistance }
func (f *PseudoKleinian) DefaultSafety() float64 { return 0.85 }

func (f *PseudoKleinian) Uniforms(int) []shader.UniformSpec {
	return []shader.UniformSpec{
		{Name: "uPkScale", Type: shader.Float, Arity: 1},
		{Name: "uPkClamp", Type: shader.Float, Arity: 1},
	}
}

func (f *PseudoKleinian) UniformValues(int) []float32 {
	return []float32{float32(f.Scale), float32(f.Clamp)}
}

const pseudoKleinianDE = `vec3 de(float p[DIM]) {
	float z[DIM];
	for (int k = 0; k < DIM; ++k) z[k] = p[k];
	float dr = 1.0;
	float trap = 1e9;
	float esc = float(uIterations);
	float r2 = 0.0;
	for (int k = 0; k < DIM; ++k) r2 += z[k] * z[k];
	for (int i = 0; i < ITER_CAP; ++i) {
		if (i >= uIterations) break;
		for (int k = 0; k < DIM; ++k) {
			z[k] = clamp(z[k], -uPkClamp, uPkClamp) * 2.0 - z[k];
		}
		r2 = 0.0;
		for (int k = 0; k < DIM; ++k) r2 += z[k] * z[k];
		float f = max(uPkScale / max(r2, 1e-12), 1.0);
		for (int k = 0; k < DIM; ++k) z[k] *= f;
		dr *= f;
		r2 = 0.0;
		for (int k = 0; k < DIM; ++k) r2 += z[k] * z[k];
		float r = sqrt(r2);
		trap = min(trap, r);
		if (r2 > uBailout2) {
			esc = float(i) + 1.0;
			break;
		}
	}
	float d = 0.5 * sqrt(r2) / dr;
	return vec3(d, trap, esc);
}
`

func (f *PseudoKleinian) AppendDE(dst []byte) []byte {
	return append(dst, pseudoKleinianDE...)
}

func (f *PseudoKleinian) Evaluate(p []float32, u Params) Sample {
	dim := len(p)
	scale := float32(f.Scale)
	cl := float32(f.Clamp)
	var z [nd.MaxDim]float32
	copy(z[:dim], p)
	dr := float32(1)
	trap := float32(1e9)
	esc := float32(u.Iterations)
	r2 := float32(0)
	for k := 0; k < dim; k++ {
		r2 += z[k] * z[k]
	}
	for i := 0; i < u.Iterations; i++ {
		for k := 0; k < dim; k++ {
			z[k] = math32.Max(-cl, math32.Min(cl, z[k]))*2 - z[k]
		}
		r2 = 0
		for k := 0; k < dim; k++ {
			r2 += z[k] * z[k]
		}
		sf := math32.Max(scale/math32.Max(r2, 1e-12), 1)
		for k := 0; k < dim; k++ {
			z[k] *= sf
		}
		dr *= sf
		r2 = 0
		for k := 0; k < dim; k++ {
			r2 += z[k] * z[k]
		}
		r := math32.Sqrt(r2)
		trap = math32.Min(trap, r)
		if r2 > u.Bailout2 {
			esc = float32(i) + 1
			break
		}
	}
	d := 0.5 * math32.Sqrt(r2) / dr
	return Sample{Dist: d, Trap: trap, Escape: esc}
}
