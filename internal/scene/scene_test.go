package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lukaszgryglicki/ndview/internal/fractal"
)

func requireConfErr(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, field, ce.Field)
}

func TestDefaultSceneValidates(t *testing.T) {
	require.NoError(t, New().Validate())
}

func TestEveryFamilyValidatesAtDefaultDim(t *testing.T) {
	ests, err := fractal.Defaults()
	require.NoError(t, err)
	for _, name := range fractal.Names(ests) {
		s := New()
		s.Family = name
		require.NoError(t, s.Validate(), "family %s", name)
	}
}

func TestShadowsNeedLighting(t *testing.T) {
	s := New()
	s.Flags.Lighting = false
	s.Flags.Shadows = true
	requireConfErr(t, s.Validate(), "flags.shadows")

	s.Flags.Lighting = true
	require.NoError(t, s.Validate())
}

func TestVolumetricExclusions(t *testing.T) {
	s := New()
	s.Flags.Opacity = "volumetric"
	requireConfErr(t, s.Validate(), "flags.opacity") // lighting still on

	s.Flags.Lighting = false
	require.NoError(t, s.Validate())

	s.Flags.Color = "normal"
	requireConfErr(t, s.Validate(), "flags.color")
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		field  string
		mutate func(*Scene)
	}{
		{"dim too low", "dim", func(s *Scene) { s.Dim = 1 }},
		{"dim too high", "dim", func(s *Scene) { s.Dim = 12 }},
		{"unknown family", "family", func(s *Scene) { s.Family = "menger" }},
		{"family below range", "dim", func(s *Scene) { s.Family = "quatjulia"; s.Dim = 3 }},
		{"bad plane name", "angles", func(s *Scene) { s.Angles["Q9"] = 10 }},
		{"plane beyond dim", "angles", func(s *Scene) { s.Dim = 3; s.Angles["XW"] = 10 }},
		{"angle not finite", "angles", func(s *Scene) { s.Angles["XY"] = nan() }},
		{"offset on viewport axis", "offsets", func(s *Scene) { s.Offsets = []float64{0, 0.5} }},
		{"offset beyond dim", "offsets", func(s *Scene) { s.Offsets = []float64{0, 0, 0, 0, 0.5} }},
		{"offset not finite", "offsets", func(s *Scene) { s.Offsets = []float64{0, 0, 0, nan()} }},
		{"too many offsets", "offsets", func(s *Scene) { s.Offsets = make([]float64, 12) }},
		{"zero iterations", "iterations", func(s *Scene) { s.Iterations = 0 }},
		{"iterations over cap", "iterations", func(s *Scene) { s.Iterations = 257 }},
		{"bailout too small", "bailout", func(s *Scene) { s.Bailout = 1.5 }},
		{"zero steps", "maxSteps", func(s *Scene) { s.MaxSteps = 0 }},
		{"steps over cap", "maxSteps", func(s *Scene) { s.MaxSteps = 513 }},
		{"zero far bound", "maxDist", func(s *Scene) { s.MaxDist = 0 }},
		{"zero threshold", "epsBase", func(s *Scene) { s.EpsBase = 0 }},
		{"negative threshold growth", "epsScale", func(s *Scene) { s.EpsScale = -1e-4 }},
		{"safety above one", "safety", func(s *Scene) { s.Safety = 1.5 }},
		{"field family at full steps", "safety", func(s *Scene) { s.Family = "kali"; s.Safety = 1 }},
		{"unknown color", "flags.color", func(s *Scene) { s.Flags.Color = "teal" }},
		{"unknown opacity", "flags.opacity", func(s *Scene) { s.Flags.Opacity = "gaseous" }},
		{"zero camera distance", "camera.distance", func(s *Scene) { s.Camera.Distance = 0 }},
		{"fov too wide", "camera.fov", func(s *Scene) { s.Camera.FovDeg = 179 }},
		{"ambient above one", "render.ambient", func(s *Scene) { s.Render.Ambient = 1.2 }},
		{"zero density", "render.density", func(s *Scene) { s.Render.Density = 0 }},
		{"zero shadow softness", "render.shadowSoft", func(s *Scene) { s.Render.ShadowSoft = 0 }},
		{"single palette anchor", "palette", func(s *Scene) { s.Palette = []string{"#ffffff"} }},
		{"bad palette hex", "palette", func(s *Scene) { s.Palette = []string{"#ffffff", "teal"} }},
		{"unknown wireframe", "wireframe", func(s *Scene) { s.Wireframe = "octaplex" }},
		{"wireframe outside range", "wireframe", func(s *Scene) { s.Wireframe = "cell24"; s.Dim = 5 }},
		{"bad family parameter", "family", func(s *Scene) { s.Params.Power = 100 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := New()
			tc.mutate(s)
			requireConfErr(t, s.Validate(), tc.field)
		})
	}
}

func nan() float64 {
	f := 0.0
	return f / f
}

func TestWireframeValidatesInRange(t *testing.T) {
	s := New()
	s.Wireframe = "cell24"
	require.NoError(t, s.Validate())

	s.Wireframe = "hypercube"
	s.Dim = 7
	require.NoError(t, s.Validate())
}

func TestFamilyParamsZeroDefaults(t *testing.T) {
	est, err := FamilyParams{}.Build("hyperbulb")
	require.NoError(t, err)
	require.Equal(t, "hyperbulb", est.Name())

	_, err = FamilyParams{}.Build("nope")
	require.Error(t, err)

	// Explicit parameters reach the constructor: an out-of-range power
	// must fail where the zero value would not.
	_, err = FamilyParams{Power: 64}.Build("hyperbulb")
	require.Error(t, err)
}

func TestSafetyResolution(t *testing.T) {
	s := New() // hyperbulb, true-distance family
	est, err := s.Estimator()
	require.NoError(t, err)

	v, err := s.safety(est)
	require.NoError(t, err)
	require.Equal(t, est.DefaultSafety(), v)

	s.Safety = 0.5
	v, err = s.safety(est)
	require.NoError(t, err)
	require.Equal(t, 0.5, v)
}

func TestBuildPalette(t *testing.T) {
	pal, err := BuildPalette([]string{"#000000", "#ffffff"})
	require.NoError(t, err)
	require.InDelta(t, 0, pal[0][0], 1e-3)
	require.InDelta(t, 1, pal[len(pal)-1][0], 1e-3)
	for _, c := range pal {
		for _, v := range c {
			require.GreaterOrEqual(t, v, float32(0))
			require.LessOrEqual(t, v, float32(1))
		}
	}

	_, err = BuildPalette([]string{"#123456"})
	require.Error(t, err)
	_, err = BuildPalette([]string{"#123456", "chartreuse"})
	require.Error(t, err)
}

func TestCloneIsolatesMutation(t *testing.T) {
	s := New()
	s.Angles["XY"] = 10
	c := s.Clone()
	c.Angles["XY"] = 99
	c.Palette[0] = "#000000"
	c.Offsets = []float64{0, 0, 0, 1}

	require.Equal(t, 10.0, s.Angles["XY"])
	require.Equal(t, "#0b1a40", s.Palette[0])
	require.Empty(t, s.Offsets)
	require.Equal(t, s.Dim, c.Dim)
}

func TestConfigurationErrorText(t *testing.T) {
	err := confErr("dim", "must be in %d..%d, got %d", 2, 11, 1)
	require.EqualError(t, err, "config dim: must be in 2..11, got 1")
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce))
}
