package fractal

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/lukaszgryglicki/ndview/internal/nd"
	"github.com/lukaszgryglicki/ndview/internal/shader"
)

// KIFS is a kaleidoscopic iterated function system: reflect into the
// positive orthant, sort coordinates descending (a reflection across
// the diagonal planes), then scale away from a fixed point. Both folds
// are isometries, so the scale factor alone drives the derivative.
type KIFS struct {
	Scale  float64
	Offset float64
}

func NewKIFS(scale, offset float64) (*KIFS, error) {
	if scale <= 1 || scale > 4 {
		return nil, fmt.Errorf("kifs: scale %v outside (1,4]", scale)
	}
	if offset <= 0 || offset > 4 {
		return nil, fmt.Errorf("kifs: offset %v outside (0,4]", offset)
	}
	return &KIFS{Scale: scale, Offset: offset}, nil
}

func (f *KIFS) Name() string           { return "kifs" }
func (f *KIFS) DimRange() (int, int)   { return nd.MinDim, nd.MaxDim }
func (f *KIFS) Kind() Kind             { return KindTrueDistance }
func (f *KIFS) DefaultSafety() float64 { return 1.0 }

func (f *KIFS) Uniforms(int) []shader.UniformSpec {
	return []shader.UniformSpec{
		{Name: "uKifsScale", Type: shader.Float, Arity: 1},
		{Name: "uKifsOffset", Type: shader.Float, Arity: 1},
	}
}

func (f *KIFS) UniformValues(int) []float32 {
	return []float32{float32(f.Scale), float32(f.Offset)}
}

const kifsDE = `vec3 de(float p[DIM]) {
	float z[DIM];
	for (int k = 0; k < DIM; ++k) z[k] = p[k];
	float dr = 1.0;
	float trap = 1e9;
	float esc = float(uIterations);
	float r2 = 0.0;
	for (int k = 0; k < DIM; ++k) r2 += z[k] * z[k];
	for (int i = 0; i < ITER_CAP; ++i) {
		if (i >= uIterations) break;
		for (int k = 0; k < DIM; ++k) z[k] = abs(z[k]);
		for (int a = 0; a < DIM - 1; ++a) {
			for (int b = a + 1; b < DIM; ++b) {
				if (z[a] < z[b]) {
					float tmp = z[a];
					z[a] = z[b];
					z[b] = tmp;
				}
			}
		}
		for (int k = 0; k < DIM; ++k) {
			z[k] = z[k] * uKifsScale - uKifsOffset * (uKifsScale - 1.0);
		}
		dr *= uKifsScale;
		r2 = 0.0;
		for (int k = 0; k < DIM; ++k) r2 += z[k] * z[k];
		float r = sqrt(r2);
		trap = min(trap, r);
		if (r2 > uBailout2) {
			esc = float(i) + 1.0;
			break;
		}
	}
	float d = (sqrt(r2) - 2.0) / dr;
	return vec3(d, trap, esc);
}
`

func (f *KIFS) AppendDE(dst []byte) []byte {
	return append(dst, kifsDE...)
}

func (f *KIFS) Evaluate(p []float32, u Params) Sample {
	dim := len(p)
	scale := float32(f.Scale)
	offset := float32(f.Offset)
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
			z[k] = math32.Abs(z[k])
		}
		for a := 0; a < dim-1; a++ {
			for b := a + 1; b < dim; b++ {
				if z[a] < z[b] {
					z[a], z[b] = z[b], z[a]
				}
			}
		}
		for k := 0; k < dim; k++ {
			z[k] = z[k]*scale - offset*(scale-1)
		}
		dr *= scale
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
	d := (math32.Sqrt(r2) - 2) / dr
	return Sample{Dist: d, Trap: trap, Escape: esc}
}
