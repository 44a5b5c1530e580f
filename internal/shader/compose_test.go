package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubFamily is a unit hypersphere; enough surface to compose against
// without dragging real formulas into composer tests.
type stubFamily struct {
	name     string
	min, max int
}

func (f stubFamily) Name() string            { return f.name }
func (f stubFamily) DimRange() (int, int)    { return f.min, f.max }
func (f stubFamily) Uniforms(int) []UniformSpec {
	return []UniformSpec{{Name: "uStubRadius", Type: Float, Arity: 1}}
}

func (f stubFamily) AppendDE(dst []byte) []byte {
	return append(dst, `vec3 de(float p[DIM]) {
	float r2 = 0.0;
	for (int k = 0; k < DIM; ++k) r2 += p[k] * p[k];
	return vec3(sqrt(r2) - uStubRadius, 0.5, 1.0);
}
`...)
}

func newTestComposer(t *testing.T) *Composer {
	t.Helper()
	c, err := NewComposer(stubFamily{name: "stub", min: 2, max: 11})
	require.NoError(t, err)
	return c
}

func TestNewComposerRejectsDuplicate(t *testing.T) {
	_, err := NewComposer(
		stubFamily{name: "stub", min: 2, max: 11},
		stubFamily{name: "stub", min: 3, max: 7},
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate family")
}

func TestComposeDeterministic(t *testing.T) {
	key := VariantKey{Family: "stub", Dim: 5, Flags: Flags{
		Lighting: true, Shadows: true, AmbientOcclusion: true,
	}}
	a, err := newTestComposer(t).Compose(key)
	require.NoError(t, err)
	b, err := newTestComposer(t).Compose(key)
	require.NoError(t, err)
	require.Equal(t, a.Source, b.Source)
	require.Equal(t, a.Uniforms, b.Uniforms)
}

func TestComposeLayoutOrder(t *testing.T) {
	key := VariantKey{Family: "stub", Dim: 7, Flags: Flags{
		Lighting: true, Shadows: true, AmbientOcclusion: true,
	}}
	v, err := newTestComposer(t).Compose(key)
	require.NoError(t, err)
	src := v.Source

	require.True(t, strings.HasPrefix(src, "#version 460 core\n"))
	require.Contains(t, src, "#define DIM 7\n")

	last := -1
	for _, banner := range []string{
		"// module: slice",
		"// module: stub",
		"// module: field",
		"// module: normal",
		"// module: ao",
		"// module: lighting",
		"// module: shadow",
		"// module: color.palette",
		"// module: main.solid",
	} {
		i := strings.Index(src, banner)
		require.GreaterOrEqual(t, i, 0, "missing %q", banner)
		require.Greater(t, i, last, "%q out of order", banner)
		last = i
	}
}

func TestComposeModuleSelection(t *testing.T) {
	cases := []struct {
		name    string
		flags   Flags
		want    []string
		forbids []string
	}{
		{
			name:    "plain",
			flags:   Flags{},
			want:    []string{"paletteLookup", "// module: main.solid"},
			forbids: []string{"fieldNormal", "applyLighting", "softShadow", "ambientOcclusion"},
		},
		{
			name:    "lighting",
			flags:   Flags{Lighting: true},
			want:    []string{"fieldNormal", "applyLighting"},
			forbids: []string{"softShadow", "ambientOcclusion"},
		},
		{
			name:    "ao without lighting",
			flags:   Flags{AmbientOcclusion: true},
			want:    []string{"fieldNormal", "ambientOcclusion"},
			forbids: []string{"applyLighting", "softShadow"},
		},
		{
			name:    "normal color",
			flags:   Flags{Color: ColorNormal},
			want:    []string{"fieldNormal", "n * 0.5 + 0.5"},
			forbids: []string{"paletteLookup"},
		},
		{
			name:    "escape color",
			flags:   Flags{Color: ColorEscape},
			want:    []string{"uEscapeScale"},
			forbids: []string{"uTrapScale"},
		},
		{
			name:    "volumetric",
			flags:   Flags{Opacity: OpacityVolumetric},
			want:    []string{"// module: main.volumetric", "uDensity"},
			forbids: []string{"fieldNormal", "// module: main.solid"},
		},
	}
	c := newTestComposer(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := c.Compose(VariantKey{Family: "stub", Dim: 4, Flags: tc.flags})
			require.NoError(t, err)
			for _, w := range tc.want {
				require.Contains(t, v.Source, w)
			}
			for _, f := range tc.forbids {
				require.NotContains(t, v.Source, f)
			}
		})
	}
}

func TestComposeValidation(t *testing.T) {
	cases := []struct {
		name   string
		key    VariantKey
		reason string
	}{
		{
			name:   "unknown family",
			key:    VariantKey{Family: "nosuch", Dim: 4},
			reason: "unknown family",
		},
		{
			name:   "dimension too low",
			key:    VariantKey{Family: "stub", Dim: 1},
			reason: "outside [2,11]",
		},
		{
			name:   "dimension too high",
			key:    VariantKey{Family: "stub", Dim: 12},
			reason: "outside [2,11]",
		},
		{
			name:   "shadows without lighting",
			key:    VariantKey{Family: "stub", Dim: 4, Flags: Flags{Shadows: true}},
			reason: "shadows require lighting",
		},
		{
			name: "volumetric lighting",
			key: VariantKey{Family: "stub", Dim: 4, Flags: Flags{
				Lighting: true, Opacity: OpacityVolumetric,
			}},
			reason: "cannot shade surfaces",
		},
		{
			name: "volumetric ao",
			key: VariantKey{Family: "stub", Dim: 4, Flags: Flags{
				AmbientOcclusion: true, Opacity: OpacityVolumetric,
			}},
			reason: "cannot shade surfaces",
		},
		{
			name: "volumetric normal color",
			key: VariantKey{Family: "stub", Dim: 4, Flags: Flags{
				Color: ColorNormal, Opacity: OpacityVolumetric,
			}},
			reason: "no surface normal",
		},
		{
			name:   "unknown color mode",
			key:    VariantKey{Family: "stub", Dim: 4, Flags: Flags{Color: ColorMode(9)}},
			reason: "unknown color mode",
		},
		{
			name:   "unknown opacity mode",
			key:    VariantKey{Family: "stub", Dim: 4, Flags: Flags{Opacity: OpacityMode(9)}},
			reason: "unknown opacity mode",
		},
	}
	c := newTestComposer(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := c.Compose(tc.key)
			require.Nil(t, v)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.reason)
			var ce *CompositionError
			require.True(t, errors.As(err, &ce))
			require.Equal(t, tc.key, ce.Key)
		})
	}
}

func TestComposeFamilyDimRange(t *testing.T) {
	c, err := NewComposer(stubFamily{name: "narrow", min: 4, max: 6})
	require.NoError(t, err)
	_, err = c.Compose(VariantKey{Family: "narrow", Dim: 3})
	require.Error(t, err)
	require.Contains(t, err.Error(), "supports dimensions 4..6")
	_, err = c.Compose(VariantKey{Family: "narrow", Dim: 6})
	require.NoError(t, err)
}

func TestComposeUniformLayout(t *testing.T) {
	key := VariantKey{Family: "stub", Dim: 9, Flags: Flags{Lighting: true}}
	v, err := newTestComposer(t).Compose(key)
	require.NoError(t, err)

	require.Equal(t, "uResolution", v.Uniforms[0].Name)
	byName := map[string]UniformSpec{}
	for _, u := range v.Uniforms {
		byName[u.Name] = u
	}
	require.Equal(t, 9, byName["uOrigin"].Arity)
	require.Equal(t, 9, byName["uBasisZ"].Arity)
	require.Contains(t, byName, "uLightDir")
	require.NotContains(t, byName, "uShadowSoft")

	// Family uniforms close the list so shared slots keep stable indices.
	require.Equal(t, "uStubRadius", v.Uniforms[len(v.Uniforms)-1].Name)

	for _, u := range v.Uniforms {
		require.Contains(t, v.Source, u.decl())
	}
}

func TestUniformSpecDecl(t *testing.T) {
	cases := []struct {
		spec   UniformSpec
		decl   string
		floats int
	}{
		{UniformSpec{Name: "uFovTan", Type: Float, Arity: 1}, "uniform float uFovTan;", 1},
		{UniformSpec{Name: "uOrigin", Type: Float, Arity: 7}, "uniform float uOrigin[7];", 7},
		{UniformSpec{Name: "uMaxSteps", Type: Int, Arity: 1}, "uniform int uMaxSteps;", 1},
		{UniformSpec{Name: "uResolution", Type: Vec2, Arity: 1}, "uniform vec2 uResolution;", 2},
		{UniformSpec{Name: "uPalette", Type: Vec3, Arity: 8}, "uniform vec3 uPalette[8];", 24},
	}
	for _, tc := range cases {
		require.Equal(t, tc.decl, tc.spec.decl())
		require.Equal(t, tc.floats, tc.spec.Floats())
	}
}

func TestVariantKeyString(t *testing.T) {
	cases := []struct {
		key  VariantKey
		want string
	}{
		{
			VariantKey{Family: "hyperbulb", Dim: 4, Flags: Flags{Lighting: true, Shadows: true}},
			"hyperbulb/d4/light+shadow/color=palette/solid",
		},
		{
			VariantKey{Family: "kali", Dim: 2, Flags: Flags{Color: ColorEscape, Opacity: OpacityVolumetric}},
			"kali/d2/none/color=escape/volumetric",
		},
		{
			VariantKey{Family: "mandelbox", Dim: 11, Flags: Flags{
				Lighting: true, Shadows: true, AmbientOcclusion: true, Color: ColorNormal,
			}},
			"mandelbox/d11/light+shadow+ao/color=normal/solid",
		},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, tc.key.String())
	}
}
