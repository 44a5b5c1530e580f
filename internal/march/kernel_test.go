package march

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/require"

	"github.com/lukaszgryglicki/ndview/internal/fractal"
	"github.com/lukaszgryglicki/ndview/internal/nd"
	"github.com/lukaszgryglicki/ndview/internal/shader"
)

// sphereEst is an exact unit-hypersphere distance field; the one shape
// where every trace outcome can be predicted by hand.
type sphereEst struct{}

func (sphereEst) Name() string                      { return "sphere" }
func (sphereEst) DimRange() (int, int)              { return nd.MinDim, nd.MaxDim }
func (sphereEst) Kind() fractal.Kind                { return fractal.KindTrueDistance }
func (sphereEst) DefaultSafety() float64            { return 1 }
func (sphereEst) Uniforms(int) []shader.UniformSpec { return nil }
func (sphereEst) UniformValues(int) []float32       { return nil }

func (sphereEst) AppendDE(dst []byte) []byte {
	return append(dst, `vec3 de(float p[DIM]) {
	float r2 = 0.0;
	for (int k = 0; k < DIM; ++k) r2 += p[k] * p[k];
	return vec3(sqrt(r2) - 1.0, 1.0, 1.0);
}
`...)
}

func (sphereEst) Evaluate(p []float32, _ fractal.Params) fractal.Sample {
	r2 := float32(0)
	for _, v := range p {
		r2 += v * v
	}
	d := math32.Sqrt(r2) - 1
	return fractal.Sample{Dist: d, Trap: d, Escape: 1}
}

func sphereField(t *testing.T, dim int) *Field {
	t.Helper()
	return NewField(sphereEst{}, nd.Canonical(dim), fractal.Params{Iterations: 1, Bailout2: 16})
}

func testMarchParams() Params {
	return Params{
		MaxSteps: 128,
		MaxDist:  10,
		EpsBase:  1e-3,
		EpsScale: 1e-4,
		Safety:   1,
	}
}

func TestTraceHitsSphereWithinThreshold(t *testing.T) {
	for dim := nd.MinDim; dim <= nd.MaxDim; dim++ {
		f := sphereField(t, dim)
		p := testMarchParams()
		res := Trace(f, [3]float32{-3, 0, 0}, [3]float32{1, 0, 0}, p)
		require.Equal(t, Hit, res.Outcome, "d%d", dim)
		require.InDelta(t, 2, res.T, 2e-3, "d%d", dim)

		// At the reported hit the field sits inside the threshold band
		// and an exact estimator never tunnels through the surface.
		eps := p.EpsBase + p.EpsScale*res.T
		require.Less(t, res.Sample.Dist, eps, "d%d", dim)
		require.GreaterOrEqual(t, res.Sample.Dist, float32(-1e-5), "d%d", dim)
	}
}

func TestTraceOffAxisHitStaysOnSurface(t *testing.T) {
	f := sphereField(t, 5)
	p := testMarchParams()
	rd := norm3([3]float32{3, 0.5, 0})
	res := Trace(f, [3]float32{-3, 0, 0}, rd, p)
	require.Equal(t, Hit, res.Outcome)
	eps := p.EpsBase + p.EpsScale*res.T
	require.Less(t, res.Sample.Dist, eps)
	require.Greater(t, res.T, float32(1.5))
	require.Less(t, res.T, float32(3))
}

func TestTraceMiss(t *testing.T) {
	f := sphereField(t, 4)
	p := testMarchParams()
	p.MaxDist = 6
	res := Trace(f, [3]float32{-3, 0, 0}, [3]float32{-1, 0, 0}, p)
	require.Equal(t, Miss, res.Outcome)
	require.LessOrEqual(t, res.Steps, 4, "exact field escapes fast")
	require.Greater(t, res.T, p.MaxDist)
}

func TestTraceStepExhausted(t *testing.T) {
	f := sphereField(t, 4)
	p := testMarchParams()
	p.MaxSteps = 8
	p.Safety = 1e-4
	res := Trace(f, [3]float32{-3, 0, 0}, [3]float32{1, 0, 0}, p)
	require.Equal(t, StepExhausted, res.Outcome)
	require.Equal(t, 8, res.Steps)
	require.Less(t, res.T, float32(0.1))
}

// One safety-scaled step from t=0 covers exactly distance*safety.
func TestSafetyScalesSteps(t *testing.T) {
	f := sphereField(t, 4)
	p := testMarchParams()
	p.Safety = 0.5
	p.MaxSteps = 1
	res := Trace(f, [3]float32{-3, 0, 0}, [3]float32{1, 0, 0}, p)
	require.Equal(t, StepExhausted, res.Outcome)
	require.InDelta(t, 1.0, res.T, 1e-5)
}

// A growing threshold lets distant surfaces resolve in fewer steps.
func TestThresholdGrowthShortensConvergence(t *testing.T) {
	f := sphereField(t, 4)
	base := testMarchParams()
	base.Safety = 0.5
	base.EpsBase = 1e-4
	base.MaxDist = 20

	flat := base
	flat.EpsScale = 0
	grown := base
	grown.EpsScale = 0.01

	ro := [3]float32{-10, 0, 0}
	rd := [3]float32{1, 0, 0}
	rFlat := Trace(f, ro, rd, flat)
	rGrown := Trace(f, ro, rd, grown)
	require.Equal(t, Hit, rFlat.Outcome)
	require.Equal(t, Hit, rGrown.Outcome)
	require.Less(t, rGrown.Steps, rFlat.Steps)
}

func TestNormalPointsOutward(t *testing.T) {
	f := sphereField(t, 6)
	n := Normal(f, [3]float32{1, 0, 0}, 1e-3)
	require.InDelta(t, 1, n[0], 1e-4)
	require.InDelta(t, 0, n[1], 1e-4)
	require.InDelta(t, 0, n[2], 1e-4)

	n = Normal(f, [3]float32{0, -1, 0}, 1e-3)
	require.InDelta(t, -1, n[1], 1e-4)
}

func TestFieldMapsThroughBasis(t *testing.T) {
	// A rotated basis must change which N-D point a viewport point
	// lands on; the canonical basis keeps leading coordinates as-is.
	dim := 4
	can := nd.Canonical(dim)
	f := NewField(sphereEst{}, can, fractal.Params{Iterations: 1, Bailout2: 16})
	s := f.At(0.3, -0.2, 0.9)
	want := math32.Sqrt(0.3*0.3+0.2*0.2+0.9*0.9) - 1
	require.InDelta(t, want, s.Dist, 1e-6)
	require.Equal(t, dim, f.Dim())

	// Offsetting the origin along the fourth axis moves the slice off
	// the sphere's equator, so the same viewport point sits farther.
	off := can
	off = off.Offset([nd.MaxDim]nd.Real{3: 0.5})
	f2 := NewField(sphereEst{}, off, fractal.Params{Iterations: 1, Bailout2: 16})
	s2 := f2.At(0.3, -0.2, 0.9)
	require.Greater(t, s2.Dist, s.Dist)
}

func TestStats(t *testing.T) {
	var st Stats
	st.Add(Result{Outcome: Hit, Steps: 10})
	st.Add(Result{Outcome: Hit, Steps: 6})
	st.Add(Result{Outcome: Miss, Steps: 4})
	st.Add(Result{Outcome: StepExhausted, Steps: 128})

	sn := st.Snapshot()
	require.Equal(t, int64(2), sn.Hits)
	require.Equal(t, int64(1), sn.Misses)
	require.Equal(t, int64(1), sn.StepExhausted)
	require.Equal(t, int64(4), sn.Rays())
	require.Equal(t, int64(148), sn.Steps)
	require.Contains(t, sn.String(), "rays 4")

	var nilStats *Stats
	nilStats.Add(Result{Outcome: Hit}) // must not panic
	require.Equal(t, int64(0), nilStats.Snapshot().Rays())
	require.Equal(t, "no rays traced", Snapshot{}.String())
}
