// Package march sphere-traces estimator fields on the CPU. It mirrors
// the composed GPU programs step for step: the same slice mapping, the
// same threshold growth, the same safety scaling. The offline renderer
// exists so a frame can be reproduced without a GL context and compared
// against what the screen shows.
package march

import (
	"github.com/chewxy/math32"

	"github.com/lukaszgryglicki/ndview/internal/fractal"
	"github.com/lukaszgryglicki/ndview/internal/nd"
)

// Outcome classifies how a ray ended.
type Outcome uint8

const (
	// Hit means the distance dropped under the surface threshold.
	Hit Outcome = iota
	// Miss means the ray left the far boundary.
	Miss
	// StepExhausted means the step budget ran out first; visually a
	// miss, but worth counting separately when tuning budgets.
	StepExhausted
)

func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	case StepExhausted:
		return "step-exhausted"
	}
	return "unknown"
}

// Params bound one trace. The surface threshold at distance t along the
// ray is EpsBase + EpsScale*t, so far geometry resolves against a
// coarser surface than near geometry.
type Params struct {
	MaxSteps int
	MaxDist  float32
	EpsBase  float32
	EpsScale float32
	Safety   float32
	Iter     fractal.Params
}

// Result is one traced ray.
type Result struct {
	Outcome Outcome
	T       float32
	Steps   int
	Sample  fractal.Sample
}

// Field evaluates an estimator through a slice basis at 3D viewport
// points. The basis is frozen to float32 on construction; per-frame
// math stays float64 upstream and converts once here.
type Field struct {
	est  fractal.Estimator
	iter fractal.Params
	dim  int

	origin [nd.MaxDim]float32
	bx     [nd.MaxDim]float32
	by     [nd.MaxDim]float32
	bz     [nd.MaxDim]float32
}

// NewField freezes basis for est at the basis dimension.
func NewField(est fractal.Estimator, basis nd.SliceBasis, iter fractal.Params) *Field {
	f := &Field{est: est, iter: iter, dim: basis.Origin.Dim}
	for k := 0; k < f.dim; k++ {
		f.origin[k] = float32(basis.Origin.E[k])
		f.bx[k] = float32(basis.X.E[k])
		f.by[k] = float32(basis.Y.E[k])
		f.bz[k] = float32(basis.Z.E[k])
	}
	return f
}

func (f *Field) Dim() int { return f.dim }

// At maps a viewport point onto the slice and evaluates the estimator.
func (f *Field) At(x, y, z float32) fractal.Sample {
	var q [nd.MaxDim]float32
	for k := 0; k < f.dim; k++ {
		q[k] = f.origin[k] + x*f.bx[k] + y*f.by[k] + z*f.bz[k]
	}
	return f.est.Evaluate(q[:f.dim], f.iter)
}

// Trace walks one ray from ro along rd (unit length expected).
func Trace(f *Field, ro, rd [3]float32, p Params) Result {
	t := float32(0)
	var s fractal.Sample
	for i := 0; i < p.MaxSteps; i++ {
		s = f.At(ro[0]+t*rd[0], ro[1]+t*rd[1], ro[2]+t*rd[2])
		eps := p.EpsBase + p.EpsScale*t
		if s.Dist < eps {
			return Result{Outcome: Hit, T: t, Steps: i + 1, Sample: s}
		}
		t += s.Dist * p.Safety
		if t > p.MaxDist {
			return Result{Outcome: Miss, T: t, Steps: i + 1, Sample: s}
		}
	}
	return Result{Outcome: StepExhausted, T: t, Steps: p.MaxSteps, Sample: s}
}

// Normal estimates the surface normal at p by central differences with
// half-step h, matching the GPU's fieldNormal.
func Normal(f *Field, p [3]float32, h float32) [3]float32 {
	return norm3([3]float32{
		f.At(p[0]+h, p[1], p[2]).Dist - f.At(p[0]-h, p[1], p[2]).Dist,
		f.At(p[0], p[1]+h, p[2]).Dist - f.At(p[0], p[1]-h, p[2]).Dist,
		f.At(p[0], p[1], p[2]+h).Dist - f.At(p[0], p[1], p[2]-h).Dist,
	})
}

func norm3(v [3]float32) [3]float32 {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}

func dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}
