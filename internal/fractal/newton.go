package fractal

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/lukaszgryglicki/ndview/internal/nd"
	"github.com/lukaszgryglicki/ndview/internal/shader"
)

// Newton runs relaxed Newton iteration for z^Order = 1 on the first two
// coordinates and turns the final residual into a field proxy; the
// basin boundaries are where the residual refuses to die. No derivative
// bound exists for that proxy, hence the field kind. In higher
// dimensions the planar fractal is extruded into a slab.
type Newton struct {
	Order      int
	Relax      float64
	FieldScale float64
	Thickness  float64
}

func NewNewton(order int, relax, fieldScale, thickness float64) (*Newton, error) {
	if order < 2 || order > 9 {
		return nil, fmt.Errorf("newton: order %d outside [2,9]", order)
	}
	if relax <= 0 || relax > 2 {
		return nil, fmt.Errorf("newton: relaxation %v outside (0,2]", relax)
	}
	if fieldScale <= 0 || fieldScale > 2 {
		return nil, fmt.Errorf("newton: field scale %v outside (0,2]", fieldScale)
	}
	if thickness <= 0 || thickness > 2 {
		return nil, fmt.Errorf("newton: thickness %v outside (0,2]", thickness)
	}
	return &Newton{Order: order, Relax: relax, FieldScale: fieldScale, Thickness: thickness}, nil
}

func (f *Newton) Name() string           { return "newton" }
func (f *Newton) DimRange() (int, int)   { return nd.MinDim, nd.MaxDim }
func (f *Newton) Kind() Kind             { return KindField }
func (f *Newton) DefaultSafety() float64 { return 0.7 }

func (f *Newton) Uniforms(int) []shader.UniformSpec {
	return []shader.UniformSpec{
		{Name: "uNwOrder", Type: shader.Int, Arity: 1},
		{Name: "uNwRelax", Type: shader.Float, Arity: 1},
		{Name: "uNwScale", Type: shader.Float, Arity: 1},
		{Name: "uNwThick", Type: shader.Float, Arity: 1},
	}
}

func (f *Newton) UniformValues(int) []float32 {
	return []float32{
		float32(f.Order),
		float32(f.Relax),
		float32(f.FieldScale),
		float32(f.Thickness),
	}
}

const newtonDE = `vec3 de(float p[DIM]) {
	float zr = p[0];
	float zi = p[1];
	float res = 1e9;
	float esc = float(uIterations);
	for (int i = 0; i < ITER_CAP; ++i) {
		if (i >= uIterations) break;
		float wr = 1.0;
		float wi = 0.0;
		for (int n = 0; n < 8; ++n) {
			if (n >= uNwOrder - 1) break;
			float t = wr * zr - wi * zi;
			wi = wr * zi + wi * zr;
			wr = t;
		}
		float fr = wr * zr - wi * zi - 1.0;
		float fi = wr * zi + wi * zr;
		float dfr = float(uNwOrder) * wr;
		float dfi = float(uNwOrder) * wi;
		float den = max(dfr * dfr + dfi * dfi, 1e-12);
		zr -= uNwRelax * (fr * dfr + fi * dfi) / den;
		zi -= uNwRelax * (fi * dfr - fr * dfi) / den;
		res = sqrt(fr * fr + fi * fi);
		if (res < 1e-6) {
			esc = float(i);
			break;
		}
	}
	float trap = atan(zi, zr) * 0.15915494 + 0.5;
	float d = uNwScale * sqrt(res);
#if DIM > 2
	float extra = 0.0;
	for (int k = 2; k < DIM; ++k) extra += p[k] * p[k];
	d = max(d, sqrt(extra) - uNwThick);
#endif
	return vec3(d, trap, esc);
}
`

func (f *Newton) AppendDE(dst []byte) []byte {
	return append(dst, newtonDE...)
}

func (f *Newton) Evaluate(p []float32, u Params) Sample {
	dim := len(p)
	order := f.Order
	relax := float32(f.Relax)
	zr, zi := p[0], p[1]
	res := float32(1e9)
	esc := float32(u.Iterations)
	for i := 0; i < u.Iterations; i++ {
		wr, wi := float32(1), float32(0)
		for n := 0; n < order-1; n++ {
			wr, wi = wr*zr-wi*zi, wr*zi+wi*zr
		}
		fr := wr*zr - wi*zi - 1
		fi := wr*zi + wi*zr
		dfr := float32(order) * wr
		dfi := float32(order) * wi
		den := math32.Max(dfr*dfr+dfi*dfi, 1e-12)
		zr -= relax * (fr*dfr + fi*dfi) / den
		zi -= relax * (fi*dfr - fr*dfi) / den
		res = math32.Sqrt(fr*fr + fi*fi)
		if res < 1e-6 {
			esc = float32(i)
			break
		}
	}
	trap := math32.Atan2(zi, zr)*0.15915494 + 0.5
	d := float32(f.FieldScale) * math32.Sqrt(res)
	if dim > 2 {
		extra := float32(0)
		for k := 2; k < dim; k++ {
			extra += p[k] * p[k]
		}
		d = math32.Max(d, math32.Sqrt(extra)-float32(f.Thickness))
	}
	return Sample{Dist: d, Trap: trap, Escape: esc}
}
