package scene

import (
	"fmt"
	"math"

	"github.com/lukaszgryglicki/ndview/internal/fractal"
	"github.com/lukaszgryglicki/ndview/internal/nd"
	"github.com/lukaszgryglicki/ndview/internal/polytope"
	"github.com/lukaszgryglicki/ndview/internal/shader"
)

// ConfigurationError reports a scene field that cannot be rendered as
// set. It is returned before any shader work happens, so a bad combo
// never reaches the compiler.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

func confErr(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func parseColor(s string) (shader.ColorMode, error) {
	switch s {
	case "palette":
		return shader.ColorPalette, nil
	case "escape":
		return shader.ColorEscape, nil
	case "normal":
		return shader.ColorNormal, nil
	}
	return 0, fmt.Errorf("unknown color mode %q", s)
}

func parseOpacity(s string) (shader.OpacityMode, error) {
	switch s {
	case "solid":
		return shader.OpacitySolid, nil
	case "volumetric":
		return shader.OpacityVolumetric, nil
	}
	return 0, fmt.Errorf("unknown opacity mode %q", s)
}

// ShaderFlags converts the serialized flag block into shader enums.
func (f Flags) ShaderFlags() (shader.Flags, error) {
	color, err := parseColor(f.Color)
	if err != nil {
		return shader.Flags{}, confErr("flags.color", "%v", err)
	}
	opacity, err := parseOpacity(f.Opacity)
	if err != nil {
		return shader.Flags{}, confErr("flags.opacity", "%v", err)
	}
	return shader.Flags{
		Lighting:         f.Lighting,
		Shadows:          f.Shadows,
		AmbientOcclusion: f.AmbientOcclusion,
		Color:            color,
		Opacity:          opacity,
	}, nil
}

// Estimator builds the configured family and checks it spans Dim.
func (s *Scene) Estimator() (fractal.Estimator, error) {
	est, err := s.Params.Build(s.Family)
	if err != nil {
		return nil, confErr("family", "%v", err)
	}
	lo, hi := est.DimRange()
	if s.Dim < lo || s.Dim > hi {
		return nil, confErr("dim", "family %s spans dimensions %d..%d, not %d", s.Family, lo, hi, s.Dim)
	}
	return est, nil
}

// safety resolves the effective march safety for an estimator: the
// scene override when set, else the family default. Field estimators
// never march at full step length.
func (s *Scene) safety(est fractal.Estimator) (float64, error) {
	v := s.Safety
	if v == 0 {
		v = est.DefaultSafety()
	}
	if v <= 0 || v > 1 {
		return 0, confErr("safety", "must be in (0,1], got %g", v)
	}
	if est.Kind() == fractal.KindField && v >= 1 {
		return 0, confErr("safety", "family %s reports a field estimate and needs safety below 1", s.Family)
	}
	return v, nil
}

// Validate checks the whole scene for internal consistency. On
// success the scene can be frozen into a Frame without further
// errors, short of shader-driver ones.
func (s *Scene) Validate() error {
	if !nd.ValidDim(s.Dim) {
		return confErr("dim", "must be in %d..%d, got %d", nd.MinDim, nd.MaxDim, s.Dim)
	}
	est, err := s.Estimator()
	if err != nil {
		return err
	}
	if _, err := s.safety(est); err != nil {
		return err
	}

	for name, deg := range s.Angles {
		p, err := nd.PlaneByName(name)
		if err != nil {
			return confErr("angles", "%v", err)
		}
		if p.J >= s.Dim {
			return confErr("angles", "plane %s needs dimension above %d", name, s.Dim)
		}
		if math.IsNaN(deg) || math.IsInf(deg, 0) {
			return confErr("angles", "plane %s angle is not finite", name)
		}
	}

	if len(s.Offsets) > nd.MaxDim {
		return confErr("offsets", "at most %d entries, got %d", nd.MaxDim, len(s.Offsets))
	}
	for i, v := range s.Offsets {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return confErr("offsets", "axis %d offset is not finite", i)
		}
		if v != 0 && (i < 3 || i >= s.Dim) {
			return confErr("offsets", "axis %d is spanned by the viewport or beyond dimension %d", i, s.Dim)
		}
	}

	if s.Iterations < 1 || s.Iterations > shader.MaxIterCap {
		return confErr("iterations", "must be in 1..%d, got %d", shader.MaxIterCap, s.Iterations)
	}
	if s.Bailout < 2 {
		return confErr("bailout", "must be at least 2, got %g", s.Bailout)
	}
	if s.MaxSteps < 1 || s.MaxSteps > shader.MaxStepCap {
		return confErr("maxSteps", "must be in 1..%d, got %d", shader.MaxStepCap, s.MaxSteps)
	}
	if s.MaxDist <= 0 {
		return confErr("maxDist", "must be positive, got %g", s.MaxDist)
	}
	if s.EpsBase <= 0 {
		return confErr("epsBase", "must be positive, got %g", s.EpsBase)
	}
	if s.EpsScale < 0 {
		return confErr("epsScale", "must not be negative, got %g", s.EpsScale)
	}

	flags, err := s.Flags.ShaderFlags()
	if err != nil {
		return err
	}
	if flags.Shadows && !flags.Lighting {
		return confErr("flags.shadows", "shadows need lighting enabled")
	}
	if flags.Opacity == shader.OpacityVolumetric {
		if flags.Lighting || flags.Shadows || flags.AmbientOcclusion {
			return confErr("flags.opacity", "volumetric rendering excludes lighting, shadows and occlusion")
		}
		if flags.Color == shader.ColorNormal {
			return confErr("flags.color", "volumetric rendering has no surface normal to color by")
		}
	}

	if s.Camera.Distance <= 0 {
		return confErr("camera.distance", "must be positive, got %g", s.Camera.Distance)
	}
	if s.Camera.FovDeg <= 1 || s.Camera.FovDeg >= 179 {
		return confErr("camera.fov", "must be between 1 and 179 degrees, got %g", s.Camera.FovDeg)
	}

	if s.Render.Ambient < 0 || s.Render.Ambient > 1 {
		return confErr("render.ambient", "must be in 0..1, got %g", s.Render.Ambient)
	}
	if s.Render.Density <= 0 || s.Render.Density > 1 {
		return confErr("render.density", "must be in (0,1], got %g", s.Render.Density)
	}
	if s.Render.ShadowSoft <= 0 {
		return confErr("render.shadowSoft", "must be positive, got %g", s.Render.ShadowSoft)
	}

	if len(s.Palette) < 2 {
		return confErr("palette", "need at least 2 anchor colors, got %d", len(s.Palette))
	}
	if _, err := BuildPalette(s.Palette); err != nil {
		return confErr("palette", "%v", err)
	}

	if s.Wireframe != "" {
		g, err := polytope.Lookup(s.Wireframe)
		if err != nil {
			return confErr("wireframe", "%v", err)
		}
		if s.Dim < g.MinDim || s.Dim > g.MaxDim {
			return confErr("wireframe", "%s spans dimensions %d..%d, not %d", g.Name, g.MinDim, g.MaxDim, s.Dim)
		}
	}
	return nil
}
