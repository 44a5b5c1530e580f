package fractal

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/lukaszgryglicki/ndview/internal/nd"
	"github.com/lukaszgryglicki/ndview/internal/shader"
)

// Mandelbox folds space with a per-axis box reflection and a conformal
// sphere inversion, then scales and re-adds the starting point. Both
// folds extend to any dimension unchanged, which makes this the
// workhorse family for high dimensions.
type Mandelbox struct {
	Scale       float64
	MinRadius   float64
	FixedRadius float64
	FoldLimit   float64
}

func NewMandelbox(scale, minRadius, fixedRadius, foldLimit float64) (*Mandelbox, error) {
	if a := scale; a > -1.01 && a < 1.01 || a < -8 || a > 8 {
		return nil, fmt.Errorf("mandelbox: scale %v outside [-8,-1.01]..[1.01,8]", scale)
	}
	if minRadius <= 0 {
		return nil, fmt.Errorf("mandelbox: min radius %v must be positive", minRadius)
	}
	if fixedRadius <= minRadius {
		return nil, fmt.Errorf("mandelbox: fixed radius %v must exceed min radius %v", fixedRadius, minRadius)
	}
	if foldLimit <= 0 {
		return nil, fmt.Errorf("mandelbox: fold limit %v must be positive", foldLimit)
	}
	return &Mandelbox{
		Scale:       scale,
		MinRadius:   minRadius,
		FixedRadius: fixedRadius,
		FoldLimit:   foldLimit,
	}, nil
}

func (f *Mandelbox) Name() string           { return "mandelbox" }
func (f *Mandelbox) DimRange() (int, int)   { return nd.MinDim, nd.MaxDim }
func (f *Mandelbox) Kind() Kind             { return KindTrueDistance }
func (f *Mandelbox) DefaultSafety() float64 { return 1.0 }

func (f *Mandelbox) Uniforms(int) []shader.UniformSpec {
	return []shader.UniformSpec{
		{Name: "uMbScale", Type: shader.Float, Arity: 1},
		{Name: "uMbMinR2", Type: shader.Float, Arity: 1},
		{Name: "uMbFixR2", Type: shader.Float, Arity: 1},
		{Name: "uMbFold", Type: shader.Float, Arity: 1},
	}
}

// UniformValues pre-squares the radii; the iteration only ever compares
// against squared lengths.
func (f *Mandelbox) UniformValues(int) []float32 {
	return []float32{
		float32(f.Scale),
		float32(f.MinRadius * f.MinRadius),
		float32(f.FixedRadius * f.FixedRadius),
		float32(f.FoldLimit),
	}
}

const mandelboxDE = `vec3 de(float p[DIM]) {
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
			z[k] = clamp(z[k], -uMbFold, uMbFold) * 2.0 - z[k];
		}
		r2 = 0.0;
		for (int k = 0; k < DIM; ++k) r2 += z[k] * z[k];
		float f = 1.0;
		if (r2 < uMbMinR2) {
			f = uMbFixR2 / uMbMinR2;
		} else if (r2 < uMbFixR2) {
			f = uMbFixR2 / max(r2, 1e-12);
		}
		dr *= f;
		for (int k = 0; k < DIM; ++k) z[k] = z[k] * f * uMbScale + p[k];
		dr = dr * abs(uMbScale) + 1.0;
		r2 = 0.0;
		for (int k = 0; k < DIM; ++k) r2 += z[k] * z[k];
		float r = sqrt(r2);
		trap = min(trap, r);
		if (r2 > uBailout2) {
			esc = float(i) + 1.0;
			break;
		}
	}
	float d = sqrt(r2) / max(abs(dr), 1e-9);
	return vec3(d, trap, esc);
}
`

func (f *Mandelbox) AppendDE(dst []byte) []byte {
	return append(dst, mandelboxDE...)
}

// sphereFoldFactor is the conformal inversion scale for a squared
// radius. Inside the min radius it is exactly (FixedRadius/MinRadius)^2.
func (f *Mandelbox) sphereFoldFactor(r2 float32) float32 {
	minR2 := float32(f.MinRadius * f.MinRadius)
	fixR2 := float32(f.FixedRadius * f.FixedRadius)
	switch {
	case r2 < minR2:
		return fixR2 / minR2
	case r2 < fixR2:
		return fixR2 / math32.Max(r2, 1e-12)
	}
	return 1
}

func (f *Mandelbox) Evaluate(p []float32, u Params) Sample {
	dim := len(p)
	scale := float32(f.Scale)
	fold := float32(f.FoldLimit)
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
			z[k] = math32.Max(-fold, math32.Min(fold, z[k]))*2 - z[k]
		}
		r2 = 0
		for k := 0; k < dim; k++ {
			r2 += z[k] * z[k]
		}
		sf := f.sphereFoldFactor(r2)
		dr *= sf
		for k := 0; k < dim; k++ {
			z[k] = z[k]*sf*scale + p[k]
		}
		dr = dr*math32.Abs(scale) + 1
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
	d := math32.Sqrt(r2) / math32.Max(math32.Abs(dr), 1e-9)
	return Sample{Dist: d, Trap: trap, Escape: esc}
}
