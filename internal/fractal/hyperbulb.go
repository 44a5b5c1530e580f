package fractal

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/lukaszgryglicki/ndview/internal/nd"
	"github.com/lukaszgryglicki/ndview/internal/shader"
)

// Hyperbulb generalizes the Mandelbulb power map to any dimension via
// hyperspherical coordinates: decompose z into a radius and DIM-1
// angles, raise the radius to Power, multiply every angle by Power,
// recompose, add the starting point. In two dimensions this degenerates
// to the complex power map, so d2/power=2 is the plain Mandelbrot set.
type Hyperbulb struct {
	Power float64
}

func NewHyperbulb(power float64) (*Hyperbulb, error) {
	if power < 1.1 || power > 32 {
		return nil, fmt.Errorf("hyperbulb: power %v outside [1.1,32]", power)
	}
	return &Hyperbulb{Power: power}, nil
}

func (f *Hyperbulb) Name() string           { return "hyperbulb" }
func (f *Hyperbulb) DimRange() (int, int)   { return nd.MinDim, nd.MaxDim }
func (f *Hyperbulb) Kind() Kind             { return KindTrueDistance }
func (f *Hyperbulb) DefaultSafety() float64 { return 1.0 }

func (f *Hyperbulb) Uniforms(int) []shader.UniformSpec {
	return []shader.UniformSpec{
		{Name: "uHbPower", Type: shader.Float, Arity: 1},
	}
}

func (f *Hyperbulb) UniformValues(int) []float32 {
	return []float32{float32(f.Power)}
}

const hyperbulbDE = `vec3 de(float p[DIM]) {
	float z[DIM];
	for (int k = 0; k < DIM; ++k) z[k] = p[k];
	float dr = 1.0;
	float r = 0.0;
	float trap = 1e9;
	float esc = float(uIterations);
	for (int i = 0; i < ITER_CAP; ++i) {
		if (i >= uIterations) break;
		float r2 = 0.0;
		for (int k = 0; k < DIM; ++k) r2 += z[k] * z[k];
		r = sqrt(r2);
		trap = min(trap, r);
		if (r2 > uBailout2) {
			esc = float(i) + 1.0 - log(log(max(r, 1.000001))) / log(uHbPower);
			break;
		}
		if (r < 1e-9) break;
		float phi[DIM - 1];
		float tail = z[DIM - 1] * z[DIM - 1];
		phi[DIM - 2] = atan(z[DIM - 1], z[DIM - 2]);
		for (int k = DIM - 3; k >= 0; --k) {
			tail += z[k + 1] * z[k + 1];
			phi[k] = atan(sqrt(tail), z[k]);
		}
		dr = uHbPower * pow(r, uHbPower - 1.0) * dr + 1.0;
		float s = pow(r, uHbPower);
		for (int k = 0; k < DIM - 1; ++k) {
			z[k] = s * cos(uHbPower * phi[k]);
			s *= sin(uHbPower * phi[k]);
		}
		z[DIM - 1] = s;
		for (int k = 0; k < DIM; ++k) z[k] += p[k];
	}
	float d = 0.5 * log(max(r, 1e-9)) * r / max(dr, 1e-9);
	return vec3(d, trap, esc);
}
`

func (f *Hyperbulb) AppendDE(dst []byte) []byte {
	return append(dst, hyperbulbDE...)
}

func (f *Hyperbulb) Evaluate(p []float32, u Params) Sample {
	dim := len(p)
	power := float32(f.Power)
	var z [nd.MaxDim]float32
	copy(z[:dim], p)
	dr := float32(1)
	r := float32(0)
	trap := float32(1e9)
	esc := float32(u.Iterations)
	for i := 0; i < u.Iterations; i++ {
		r2 := float32(0)
		for k := 0; k < dim; k++ {
			r2 += z[k] * z[k]
		}
		r = math32.Sqrt(r2)
		trap = math32.Min(trap, r)
		if r2 > u.Bailout2 {
			esc = float32(i) + 1 - math32.Log(math32.Log(math32.Max(r, 1.000001)))/math32.Log(power)
			break
		}
		if r < 1e-9 {
			break
		}
		var phi [nd.MaxDim]float32
		tail := z[dim-1] * z[dim-1]
		phi[dim-2] = math32.Atan2(z[dim-1], z[dim-2])
		for k := dim - 3; k >= 0; k-- {
			tail += z[k+1] * z[k+1]
			phi[k] = math32.Atan2(math32.Sqrt(tail), z[k])
		}
		dr = power*math32.Pow(r, power-1)*dr + 1
		s := math32.Pow(r, power)
		for k := 0; k < dim-1; k++ {
			z[k] = s * math32.Cos(power*phi[k])
			s *= math32.Sin(power * phi[k])
		}
		z[dim-1] = s
		for k := 0; k < dim; k++ {
			z[k] += p[k]
		}
	}
	d := 0.5 * math32.Log(math32.Max(r, 1e-9)) * r / math32.Max(dr, 1e-9)
	return Sample{Dist: d, Trap: trap, Escape: esc}
}
