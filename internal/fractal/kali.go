package fractal

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/lukaszgryglicki/ndview/internal/nd"
	"github.com/lukaszgryglicki/ndview/internal/shader"
)

// Kali iterates z <- |z| / dot(z,z) + c, an inversion with a per-axis
// additive constant. The minimum orbit radius works as a field proxy for
// the nested web the map traces out; there is no derivative to bound a
// step with, so the family marches conservatively.
type Kali struct {
	C          []float64
	FieldScale float64
}

// NewKali validates the additive constant. c may hold fewer entries
// than the dimension; missing axes repeat the last entry so one
// constant can serve every dimension.
func NewKali(c []float64, fieldScale float64) (*Kali, error) {
	if len(c) == 0 {
		return nil, fmt.Errorf("kali: constant must have at least one entry")
	}
	if len(c) > nd.MaxDim {
		return nil, fmt.Errorf("kali: constant has %d entries, max %d", len(c), nd.MaxDim)
	}
	for i, v := range c {
		if v < -2 || v > 2 {
			return nil, fmt.Errorf("kali: c[%d]=%v outside [-2,2]", i, v)
		}
	}
	if fieldScale <= 0 || fieldScale > 2 {
		return nil, fmt.Errorf("kali: field scale %v outside (0,2]", fieldScale)
	}
	return &Kali{C: append([]float64(nil), c...), FieldScale: fieldScale}, nil
}

func (f *Kali) Name() string           { return "kali" }
func (f *Kali) DimRange() (int, int)   { return nd.MinDim, nd.MaxDim }
func (f *Kali) Kind() Kind             { return KindField }
func (f *Kali) DefaultSafety() float64 { return 0.6 }

func (f *Kali) Uniforms(dim int) []shader.UniformSpec {
	return []shader.UniformSpec{
		{Name: "uKaliC", Type: shader.Float, Arity: dim},
		{Name: "uKaliScale", Type: shader.Float, Arity: 1},
	}
}

func (f *Kali) axisC(k int) float64 {
	if k < len(f.C) {
		return f.C[k]
	}
	return f.C[len(f.C)-1]
}

func (f *Kali) UniformValues(dim int) []float32 {
	vals := make([]float32, 0, dim+1)
	for k := 0; k < dim; k++ {
		vals = append(vals, float32(f.axisC(k)))
	}
	return append(vals, float32(f.FieldScale))
}

const kaliDE = `vec3 de(float p[DIM]) {
	float z[DIM];
	for (int k = 0; k < DIM; ++k) z[k] = p[k];
	float esc = float(uIterations);
	float orbit = 1e9;
	for (int i = 0; i < ITER_CAP; ++i) {
		if (i >= uIterations) break;
		float r2 = 0.0;
		for (int k = 0; k < DIM; ++k) {
			z[k] = abs(z[k]);
			r2 += z[k] * z[k];
		}
		float inv = 1.0 / max(r2, 1e-12);
		float m = 0.0;
		for (int k = 0; k < DIM; ++k) {
			z[k] = z[k] * inv + uKaliC[k];
			m += z[k] * z[k];
		}
		orbit = min(orbit, sqrt(m));
		if (m > uBailout2) {
			esc = float(i) + 1.0;
			break;
		}
	}
	float d = uKaliScale * orbit;
	return vec3(d, orbit, esc);
}
`

func (f *Kali) AppendDE(dst []byte) []byte {
	return append(dst, kaliDE...)
}

func (f *Kali) Evaluate(p []float32, u Params) Sample {
	dim := len(p)
	var z, c [nd.MaxDim]float32
	copy(z[:dim], p)
	for k := 0; k < dim; k++ {
		c[k] = float32(f.axisC(k))
	}
	esc := float32(u.Iterations)
	orbit := float32(1e9)
	for i := 0; i < u.Iterations; i++ {
		r2 := float32(0)
		for k := 0; k < dim; k++ {
			z[k] = math32.Abs(z[k])
			r2 += z[k] * z[k]
		}
		inv := 1 / math32.Max(r2, 1e-12)
		m := float32(0)
		for k := 0; k < dim; k++ {
			z[k] = z[k]*inv + c[k]
			m += z[k] * z[k]
		}
		orbit = math32.Min(orbit, math32.Sqrt(m))
		if m > u.Bailout2 {
			esc = float32(i) + 1
			break
		}
	}
	d := float32(f.FieldScale) * orbit
	return Sample{Dist: d, Trap: orbit, Escape: esc}
}
