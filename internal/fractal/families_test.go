package fractal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMandelboxSphereFoldScaling(t *testing.T) {
	mb, err := NewMandelbox(2, 0.5, 1, 1)
	require.NoError(t, err)

	// Inside the min radius the factor is exactly (fixed/min)^2.
	want := float32(mb.FixedRadius*mb.FixedRadius) / float32(mb.MinRadius*mb.MinRadius)
	require.Equal(t, want, mb.sphereFoldFactor(0.1))
	require.Equal(t, float32(4), mb.sphereFoldFactor(0.2499))

	// Between the radii the inversion scales by fixR2/r2.
	require.Equal(t, float32(2), mb.sphereFoldFactor(0.5))

	// Outside the fixed radius the fold is inert.
	require.Equal(t, float32(1), mb.sphereFoldFactor(2))
	require.Equal(t, float32(1), mb.sphereFoldFactor(1))
}

func TestMandelboxFarPointPositiveDistance(t *testing.T) {
	mb, err := NewMandelbox(2, 0.5, 1, 1)
	require.NoError(t, err)
	for dim := 2; dim <= 11; dim++ {
		p := make([]float32, dim)
		p[0] = 20
		s := mb.Evaluate(p, testParams)
		require.Greater(t, s.Dist, float32(0), "d%d", dim)
	}
}

// In two dimensions with power two the hyperbulb iteration is the plain
// complex quadratic map, so classic Mandelbrot facts apply.
func TestHyperbulbPlaneIsMandelbrot(t *testing.T) {
	hb, err := NewHyperbulb(2)
	require.NoError(t, err)

	// (4,0) escapes on the second radius check: first trap is |p|.
	s := hb.Evaluate([]float32{4, 0}, Params{Iterations: 24, Bailout2: 4})
	require.Greater(t, s.Dist, float32(0))
	require.InDelta(t, 4, s.Trap, 1e-5)
	require.Less(t, s.Escape, float32(3))

	// The origin never escapes and reports a vanishing distance.
	s = hb.Evaluate([]float32{0, 0}, Params{Iterations: 24, Bailout2: 4})
	require.InDelta(t, 0, s.Dist, 1e-5)

	// A point inside the main cardioid stays bounded for any budget.
	s = hb.Evaluate([]float32{-0.1, 0.1}, Params{Iterations: 200, Bailout2: 4})
	require.LessOrEqual(t, s.Dist, float32(0.01))
	require.InDelta(t, 200, s.Escape, 1e-3)
}

func TestHyperbulbEscapeCountDropsWithDistance(t *testing.T) {
	hb, err := NewHyperbulb(8)
	require.NoError(t, err)
	p := Params{Iterations: 40, Bailout2: 16}
	far := hb.Evaluate([]float32{3, 0, 0}, p)
	near := hb.Evaluate([]float32{1.02, 0, 0}, p)
	require.Less(t, far.Escape, near.Escape)
}

func TestNewtonRootsAreHits(t *testing.T) {
	nw, err := NewNewton(3, 1, 0.25, 0.3)
	require.NoError(t, err)

	// z=1 solves z^3=1 exactly; the residual dies at iteration zero.
	s := nw.Evaluate([]float32{1, 0}, testParams)
	require.InDelta(t, 0, s.Dist, 1e-3)
	require.InDelta(t, 0, s.Escape, 1e-6)

	// Far from the basins boundaries the residual shrinks fast too.
	s = nw.Evaluate([]float32{-0.5, 0.8660254}, testParams)
	require.Less(t, s.Dist, float32(0.01))
}

func TestNewtonExtrudesAboveThePlane(t *testing.T) {
	nw, err := NewNewton(3, 1, 0.25, 0.3)
	require.NoError(t, err)
	p := []float32{1, 0, 0, 0, 2}
	s := nw.Evaluate(p, testParams)
	// max with the slab keeps distant extra coordinates far away.
	require.GreaterOrEqual(t, s.Dist, float32(2-0.3-1e-3))
}

func TestQuatJuliaSlabBoundsExtraAxes(t *testing.T) {
	qj, err := NewQuatJulia([4]float64{-0.291, -0.399, 0.339, 0.437}, 0.5)
	require.NoError(t, err)
	p := make([]float32, 7)
	p[0] = 0.1
	p[4] = 5
	s := qj.Evaluate(p, testParams)
	require.GreaterOrEqual(t, s.Dist, float32(4.49))
}

func TestKaliFieldIsNonNegative(t *testing.T) {
	kl, err := NewKali([]float64{-0.933, -0.2, -0.586}, 0.5)
	require.NoError(t, err)
	for dim := 2; dim <= 11; dim++ {
		for _, p := range samplePoints(dim) {
			s := kl.Evaluate(p, testParams)
			require.GreaterOrEqual(t, s.Dist, float32(0), "d%d", dim)
			require.Equal(t, s.Trap, s.Dist/float32(kl.FieldScale))
		}
	}
}

func TestKaliAxisConstantRepeats(t *testing.T) {
	kl, err := NewKali([]float64{0.5, -0.5}, 0.5)
	require.NoError(t, err)
	vals := kl.UniformValues(6)
	require.Len(t, vals, 7)
	require.Equal(t, float32(0.5), vals[0])
	for k := 1; k < 6; k++ {
		require.Equal(t, float32(-0.5), vals[k])
	}
}

func TestCoupledMapSpreadIsBounded(t *testing.T) {
	cm, err := NewCoupledMap(3.9, 0.3, 1)
	require.NoError(t, err)
	for dim := 2; dim <= 11; dim++ {
		for _, p := range samplePoints(dim) {
			s := cm.Evaluate(p, testParams)
			require.GreaterOrEqual(t, s.Dist, float32(0), "d%d", dim)
			// Sites live in [0,1], so the spread can never pass 1.
			require.LessOrEqual(t, s.Dist, float32(cm.FieldScale), "d%d", dim)
		}
	}
}

func TestCoupledMapFullSynchronyIsSurface(t *testing.T) {
	cm, err := NewCoupledMap(3.9, 0.3, 1)
	require.NoError(t, err)
	// Identical seeds stay identical under symmetric coupling.
	p := []float32{0.4, 0.4, 0.4, 0.4}
	s := cm.Evaluate(p, testParams)
	require.InDelta(t, 0, s.Dist, 1e-4)
}
