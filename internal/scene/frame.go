package scene

import (
	"math"

	"github.com/lukaszgryglicki/ndview/internal/fractal"
	"github.com/lukaszgryglicki/ndview/internal/march"
	"github.com/lukaszgryglicki/ndview/internal/nd"
	"github.com/lukaszgryglicki/ndview/internal/shader"
)

// Frame is one validated scene frozen for drawing: the variant key to
// compile, the slice basis, march bounds and every uniform value keyed
// by name. Int-typed uniforms are stored as float32 and cast back on
// upload; every value they carry fits a float32 exactly.
type Frame struct {
	Key       shader.VariantKey
	Estimator fractal.Estimator
	Basis     nd.SliceBasis
	March     march.Params
	Options   march.Options
	Uniforms  map[string][]float32
}

// Field builds the CPU-side sampler for offline rendering.
func (fr *Frame) Field() *march.Field {
	return march.NewField(fr.Estimator, fr.Basis, fr.March.Iter)
}

// planeAngles converts the named angle map to radians. Names were
// checked by Validate; anything unparseable here is skipped.
func (s *Scene) planeAngles() []nd.PlaneAngle {
	out := make([]nd.PlaneAngle, 0, len(s.Angles))
	for name, deg := range s.Angles {
		p, err := nd.PlaneByName(name)
		if err != nil {
			continue
		}
		out = append(out, nd.PlaneAngle{Plane: p, Angle: deg * math.Pi / 180})
	}
	return out
}

// Rotation composes the full rotation matrix for the current angle set.
func (s *Scene) Rotation() nd.Mat {
	return nd.Compose(s.Dim, s.planeAngles())
}

// Basis composes the rotation from the angle set and shifts the slice
// origin by the offsets.
func (s *Scene) Basis() nd.SliceBasis {
	var off [nd.MaxDim]nd.Real
	copy(off[:], s.Offsets)
	return nd.Slice(s.Rotation(), nd.Point{Dim: s.Dim}).Offset(off)
}

func cross3(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func unit3(v [3]float64) [3]float64 {
	l := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		return v
	}
	return [3]float64{v[0] / l, v[1] / l, v[2] / l}
}

func f32vec(v [3]float64) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

// freeze turns the orbit parameters into camera vectors. Pitch is
// clamped just short of the poles so the world-up cross product never
// degenerates.
func (c Camera) freeze() march.Camera {
	yaw := c.Yaw * math.Pi / 180
	pitch := c.Pitch * math.Pi / 180
	const lim = 89 * math.Pi / 180
	if pitch > lim {
		pitch = lim
	}
	if pitch < -lim {
		pitch = -lim
	}
	cp, sp := math.Cos(pitch), math.Sin(pitch)
	pos := [3]float64{
		c.Distance * cp * math.Sin(yaw),
		c.Distance * sp,
		-c.Distance * cp * math.Cos(yaw),
	}
	fwd := unit3([3]float64{-pos[0], -pos[1], -pos[2]})
	right := unit3(cross3(fwd, [3]float64{0, 1, 0}))
	up := cross3(right, fwd)
	return march.Camera{
		Pos:    f32vec(pos),
		Right:  f32vec(right),
		Up:     f32vec(up),
		Fwd:    f32vec(fwd),
		FovTan: float32(math.Tan(c.FovDeg * math.Pi / 360)),
	}
}

func freezeCoords(e [nd.MaxDim]nd.Real, dim int) []float32 {
	out := make([]float32, dim)
	for k := 0; k < dim; k++ {
		out[k] = float32(e[k])
	}
	return out
}

// Frame validates the scene and freezes it for one draw. The width and
// height feed uResolution, elapsed feeds uTime; everything else comes
// from scene state.
func (s *Scene) Frame(width, height int, elapsed float64) (*Frame, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	est, err := s.Estimator()
	if err != nil {
		return nil, err
	}
	safety, err := s.safety(est)
	if err != nil {
		return nil, err
	}
	flags, err := s.Flags.ShaderFlags()
	if err != nil {
		return nil, err
	}
	pal, err := BuildPalette(s.Palette)
	if err != nil {
		return nil, err
	}

	basis := s.Basis()
	cam := s.Camera.freeze()
	mp := march.Params{
		MaxSteps: s.MaxSteps,
		MaxDist:  float32(s.MaxDist),
		EpsBase:  float32(s.EpsBase),
		EpsScale: float32(s.EpsScale),
		Safety:   float32(safety),
		Iter: fractal.Params{
			Iterations: s.Iterations,
			Bailout2:   float32(s.Bailout * s.Bailout),
		},
	}
	opt := march.Options{
		Width:       width,
		Height:      height,
		Camera:      cam,
		Flags:       flags,
		Background:  f32vec(s.Render.Background),
		Palette:     pal,
		TrapScale:   float32(s.Render.TrapScale),
		TrapShift:   float32(s.Render.TrapShift),
		EscapeScale: float32(s.Render.EscapeScale),
		LightDir:    f32vec(s.Render.LightDir),
		Ambient:     float32(s.Render.Ambient),
		ShadowSoft:  float32(s.Render.ShadowSoft),
		Density:     float32(s.Render.Density),
	}

	u := make(map[string][]float32, 32)
	u["uResolution"] = []float32{float32(width), float32(height)}
	u["uCamPos"] = cam.Pos[:]
	u["uCamRight"] = cam.Right[:]
	u["uCamUp"] = cam.Up[:]
	u["uCamFwd"] = cam.Fwd[:]
	u["uFovTan"] = []float32{cam.FovTan}
	u["uOrigin"] = freezeCoords(basis.Origin.E, s.Dim)
	u["uBasisX"] = freezeCoords(basis.X.E, s.Dim)
	u["uBasisY"] = freezeCoords(basis.Y.E, s.Dim)
	u["uBasisZ"] = freezeCoords(basis.Z.E, s.Dim)
	u["uIterations"] = []float32{float32(s.Iterations)}
	u["uBailout2"] = []float32{mp.Iter.Bailout2}
	u["uSafety"] = []float32{mp.Safety}
	u["uEpsBase"] = []float32{mp.EpsBase}
	u["uEpsScale"] = []float32{mp.EpsScale}
	u["uMaxDist"] = []float32{mp.MaxDist}
	u["uMaxSteps"] = []float32{float32(s.MaxSteps)}
	u["uBackground"] = opt.Background[:]
	u["uTime"] = []float32{float32(elapsed)}
	u["uLightDir"] = opt.LightDir[:]
	u["uAmbient"] = []float32{opt.Ambient}
	u["uShadowSoft"] = []float32{opt.ShadowSoft}
	u["uTrapScale"] = []float32{opt.TrapScale}
	u["uTrapShift"] = []float32{opt.TrapShift}
	u["uEscapeScale"] = []float32{opt.EscapeScale}
	u["uDensity"] = []float32{opt.Density}
	pv := make([]float32, 0, 3*shader.PaletteSize)
	for _, c := range pal {
		pv = append(pv, c[0], c[1], c[2])
	}
	u["uPalette"] = pv

	vals := est.UniformValues(s.Dim)
	for _, spec := range est.Uniforms(s.Dim) {
		n := spec.Floats()
		if len(vals) < n {
			return nil, confErr("family", "uniform %s is short of values", spec.Name)
		}
		u[spec.Name] = vals[:n:n]
		vals = vals[n:]
	}

	return &Frame{
		Key:       shader.VariantKey{Family: s.Family, Dim: s.Dim, Flags: flags},
		Estimator: est,
		Basis:     basis,
		March:     mp,
		Options:   opt,
		Uniforms:  u,
	}, nil
}
