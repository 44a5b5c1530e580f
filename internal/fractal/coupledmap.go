package fractal

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/lukaszgryglicki/ndview/internal/nd"
	"github.com/lukaszgryglicki/ndview/internal/shader"
)

// CoupledMap treats the N coordinates as a ring of logistic maps with
// diffusive nearest-neighbor coupling and renders the synchronization
// manifold: the field value is the spread of the lattice after
// iterating, which collapses to zero where the sites lock together.
// Purely a field proxy; nothing here estimates distance.
type CoupledMap struct {
	Lambda     float64
	Coupling   float64
	FieldScale float64
}

func NewCoupledMap(lambda, coupling, fieldScale float64) (*CoupledMap, error) {
	if lambda <= 0 || lambda > 4 {
		return nil, fmt.Errorf("coupledmap: lambda %v outside (0,4]", lambda)
	}
	if coupling < 0 || coupling > 1 {
		return nil, fmt.Errorf("coupledmap: coupling %v outside [0,1]", coupling)
	}
	if fieldScale <= 0 || fieldScale > 4 {
		return nil, fmt.Errorf("coupledmap: field scale %v outside (0,4]", fieldScale)
	}
	return &CoupledMap{Lambda: lambda, Coupling: coupling, FieldScale: fieldScale}, nil
}

func (f *CoupledMap) Name() string           { return "coupledmap" }
func (f *CoupledMap) DimRange() (int, int)   { return nd.MinDim, nd.MaxDim }
func (f *CoupledMap) Kind() Kind             { return KindField }
func (f *CoupledMap) DefaultSafety() float64 { return 0.5 }

func (f *CoupledMap) Uniforms(int) []shader.UniformSpec {
	return []shader.UniformSpec{
		{Name: "uCmLambda", Type: shader.Float, Arity: 1},
		{Name: "uCmEps", Type: shader.Float, Arity: 1},
		{Name: "uCmScale", Type: shader.Float, Arity: 1},
	}
}

func (f *CoupledMap) UniformValues(int) []float32 {
	return []float32{float32(f.Lambda), float32(f.Coupling), float32(f.FieldScale)}
}

const coupledMapDE = `vec3 de(float p[DIM]) {
	float x[DIM];
	for (int k = 0; k < DIM; ++k) x[k] = fract(p[k] * 0.25 + 0.5);
	float esc = float(uIterations);
	float trap = 1e9;
	float spread = 0.0;
	float mean = 0.0;
	for (int i = 0; i < ITER_CAP; ++i) {
		if (i >= uIterations) break;
		float y[DIM];
		for (int k = 0; k < DIM; ++k) {
			float xl = x[(k + DIM - 1) % DIM];
			float xr = x[(k + 1) % DIM];
			float fc = uCmLambda * x[k] * (1.0 - x[k]);
			float fl = uCmLambda * xl * (1.0 - xl);
			float fr = uCmLambda * xr * (1.0 - xr);
			y[k] = (1.0 - uCmEps) * fc + 0.5 * uCmEps * (fl + fr);
		}
		mean = 0.0;
		for (int k = 0; k < DIM; ++k) {
			x[k] = y[k];
			mean += y[k];
		}
		mean /= float(DIM);
		float v = 0.0;
		for (int k = 0; k < DIM; ++k) {
			float dk = y[k] - mean;
			v += dk * dk;
		}
		spread = sqrt(v / float(DIM));
		trap = min(trap, spread);
	}
	esc = mean * float(uIterations);
	float d = uCmScale * spread;
	return vec3(d, trap, esc);
}
`

func (f *CoupledMap) AppendDE(dst []byte) []byte {
	return append(dst, coupledMapDE...)
}

func (f *CoupledMap) Evaluate(p []float32, u Params) Sample {
	dim := len(p)
	lambda := float32(f.Lambda)
	eps := float32(f.Coupling)
	var x, y [nd.MaxDim]float32
	for k := 0; k < dim; k++ {
		v := p[k]*0.25 + 0.5
		x[k] = v - math32.Floor(v)
	}
	trap := float32(1e9)
	spread := float32(0)
	mean := float32(0)
	for i := 0; i < u.Iterations; i++ {
		for k := 0; k < dim; k++ {
			xl := x[(k+dim-1)%dim]
			xr := x[(k+1)%dim]
			fc := lambda * x[k] * (1 - x[k])
			fl := lambda * xl * (1 - xl)
			fr := lambda * xr * (1 - xr)
			y[k] = (1-eps)*fc + 0.5*eps*(fl+fr)
		}
		mean = 0
		for k := 0; k < dim; k++ {
			x[k] = y[k]
			mean += y[k]
		}
		mean /= float32(dim)
		v := float32(0)
		for k := 0; k < dim; k++ {
			dk := y[k] - mean
			v += dk * dk
		}
		spread = math32.Sqrt(v / float32(dim))
		trap = math32.Min(trap, spread)
	}
	esc := mean * float32(u.Iterations)
	d := float32(f.FieldScale) * spread
	return Sample{Dist: d, Trap: trap, Escape: esc}
}
