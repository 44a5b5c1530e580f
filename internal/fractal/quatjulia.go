package fractal

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/lukaszgryglicki/ndview/internal/nd"
	"github.com/lukaszgryglicki/ndview/internal/shader"
)

// QuatJulia iterates the quaternion Julia map q <- q^2 + c on the first
// four coordinates. Above four dimensions the set is extruded along the
// extra axes and intersected with a slab of half-width Thickness, so
// slicing through those axes still shows a bounded body.
type QuatJulia struct {
	C         [4]float64
	Thickness float64
}

func NewQuatJulia(c [4]float64, thickness float64) (*QuatJulia, error) {
	for i, v := range c {
		if v < -2 || v > 2 {
			return nil, fmt.Errorf("quatjulia: c[%d]=%v outside [-2,2]", i, v)
		}
	}
	if thickness <= 0 || thickness > 2 {
		return nil, fmt.Errorf("quatjulia: thickness %v outside (0,2]", thickness)
	}
	return &QuatJulia{C: c, Thickness: thickness}, nil
}

func (f *QuatJulia) Name() string           { return "quatjulia" }
func (f *QuatJulia) DimRange() (int, int)   { return 4, nd.MaxDim }
func (f *QuatJulia) Kind() Kind             { return KindTrueDistance }
func (f *QuatJulia) DefaultSafety() float64 { return 1.0 }

func (f *QuatJulia) Uniforms(int) []shader.UniformSpec {
	return []shader.UniformSpec{
		{Name: "uQjC", Type: shader.Float, Arity: 4},
		{Name: "uQjThick", Type: shader.Float, Arity: 1},
	}
}

func (f *QuatJulia) UniformValues(int) []float32 {
	return []float32{
		float32(f.C[0]), float32(f.C[1]), float32(f.C[2]), float32(f.C[3]),
		float32(f.Thickness),
	}
}

const quatJuliaDE = `vec3 de(float p[DIM]) {
	float qa = p[0];
	float qb = p[1];
	float qc = p[2];
	float qd = p[3];
	float dr = 1.0;
	float trap = 1e9;
	float esc = float(uIterations);
	float r2 = qa * qa + qb * qb + qc * qc + qd * qd;
	for (int i = 0; i < ITER_CAP; ++i) {
		if (i >= uIterations) break;
		dr = 2.0 * sqrt(r2) * dr;
		float na = qa * qa - qb * qb - qc * qc - qd * qd + uQjC[0];
		float nb = 2.0 * qa * qb + uQjC[1];
		float nc = 2.0 * qa * qc + uQjC[2];
		float nw = 2.0 * qa * qd + uQjC[3];
		qa = na;
		qb = nb;
		qc = nc;
		qd = nw;
		r2 = qa * qa + qb * qb + qc * qc + qd * qd;
		float r = sqrt(r2);
		trap = min(trap, r);
		if (r2 > uBailout2) {
			esc = float(i) + 1.0 - log(log(max(r, 1.000001))) / log(2.0);
			break;
		}
	}
	float r = sqrt(max(r2, 1e-12));
	float d = 0.5 * r * log(max(r, 1e-9)) / max(dr, 1e-9);
#if DIM > 4
	float extra = 0.0;
	for (int k = 4; k < DIM; ++k) extra += p[k] * p[k];
	d = max(d, sqrt(extra) - uQjThick);
#endif
	return vec3(d, trap, esc);
}
`

func (f *QuatJulia) AppendDE(dst []byte) []byte {
	return append(dst, quatJuliaDE...)
}

func (f *QuatJulia) Evaluate(p []float32, u Params) Sample {
	dim := len(p)
	qa, qb, qc, qd := p[0], p[1], p[2], p[3]
	c0 := float32(f.C[0])
	c1 := float32(f.C[1])
	c2 := float32(f.C[2])
	c3 := float32(f.C[3])
	dr := float32(1)
	trap := float32(1e9)
	esc := float32(u.Iterations)
	r2 := qa*qa + qb*qb + qc*qc + qd*qd
	for i := 0; i < u.Iterations; i++ {
		dr = 2 * math32.Sqrt(r2) * dr
		na := qa*qa - qb*qb - qc*qc - qd*qd + c0
		nb := 2*qa*qb + c1
		nc := 2*qa*qc + c2
		nw := 2*qa*qd + c3
		qa, qb, qc, qd = na, nb, nc, nw
		r2 = qa*qa + qb*qb + qc*qc + qd*qd
		r := math32.Sqrt(r2)
		trap = math32.Min(trap, r)
		if r2 > u.Bailout2 {
			esc = float32(i) + 1 - math32.Log(math32.Log(math32.Max(r, 1.000001)))/math32.Log(2)
			break
		}
	}
	r := math32.Sqrt(math32.Max(r2, 1e-12))
	d := 0.5 * r * math32.Log(math32.Max(r, 1e-9)) / math32.Max(dr, 1e-9)
	if dim > 4 {
		extra := float32(0)
		for k := 4; k < dim; k++ {
			extra += p[k] * p[k]
		}
		slab := math32.Sqrt(extra) - float32(f.Thickness)
		d = math32.Max(d, slab)
	}
	return Sample{Dist: d, Trap: trap, Escape: esc}
}
