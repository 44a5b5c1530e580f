// Package scene holds the complete viewer state: dimension, rotation
// angles, slice offsets, family choice and parameters, shading flags,
// camera and palette. It validates that state as a whole, freezes it
// into per-frame uniform data, and round-trips it through snapshots.
package scene

import (
	"fmt"
	"maps"
	"slices"

	"github.com/lukaszgryglicki/ndview/internal/fractal"
)

// FamilyParams is the union of per-family tuning knobs. Zero values
// mean "use the stock parameter", so a snapshot only mentions what it
// changed; the flip side is that an explicit zero cannot be expressed.
type FamilyParams struct {
	Power float64 `json:"power,omitempty"`

	BoxScale    float64 `json:"boxScale,omitempty"`
	MinRadius   float64 `json:"minRadius,omitempty"`
	FixedRadius float64 `json:"fixedRadius,omitempty"`
	FoldLimit   float64 `json:"foldLimit,omitempty"`

	KifsScale  float64 `json:"kifsScale,omitempty"`
	KifsOffset float64 `json:"kifsOffset,omitempty"`

	PkScale float64 `json:"pkScale,omitempty"`
	PkClamp float64 `json:"pkClamp,omitempty"`

	JuliaC    [4]float64 `json:"juliaC"`
	Thickness float64    `json:"thickness,omitempty"`

	Order int     `json:"order,omitempty"`
	Relax float64 `json:"relax,omitempty"`

	FieldScale float64 `json:"fieldScale,omitempty"`

	KaliC []float64 `json:"kaliC,omitempty"`

	Lambda   float64 `json:"lambda,omitempty"`
	Coupling float64 `json:"coupling,omitempty"`
}

func defF(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func defI(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// Build constructs the estimator for a family from these parameters,
// falling back to stock values for everything left at zero.
func (p FamilyParams) Build(family string) (fractal.Estimator, error) {
	switch family {
	case "hyperbulb":
		return fractal.NewHyperbulb(defF(p.Power, 8))
	case "mandelbox":
		return fractal.NewMandelbox(defF(p.BoxScale, 2), defF(p.MinRadius, 0.5),
			defF(p.FixedRadius, 1), defF(p.FoldLimit, 1))
	case "kifs":
		return fractal.NewKIFS(defF(p.KifsScale, 2), defF(p.KifsOffset, 1))
	case "pseudokleinian":
		return fractal.NewPseudoKleinian(defF(p.PkScale, 1.1), defF(p.PkClamp, 0.92))
	case "quatjulia":
		c := p.JuliaC
		if c == ([4]float64{}) {
			c = [4]float64{-0.291, -0.399, 0.339, 0.437}
		}
		return fractal.NewQuatJulia(c, defF(p.Thickness, 0.5))
	case "newton":
		return fractal.NewNewton(defI(p.Order, 3), defF(p.Relax, 1),
			defF(p.FieldScale, 0.25), defF(p.Thickness, 0.3))
	case "kali":
		c := p.KaliC
		if len(c) == 0 {
			c = []float64{-0.933, -0.2, -0.586}
		}
		return fractal.NewKali(c, defF(p.FieldScale, 0.5))
	case "coupledmap":
		return fractal.NewCoupledMap(defF(p.Lambda, 3.9), defF(p.Coupling, 0.3),
			defF(p.FieldScale, 1))
	}
	return nil, fmt.Errorf("unknown family %q", family)
}

// Camera orbits the origin: yaw and pitch in degrees, distance along
// the view axis, vertical field of view in degrees.
type Camera struct {
	Yaw      float64 `json:"yaw"`
	Pitch    float64 `json:"pitch"`
	Distance float64 `json:"distance"`
	FovDeg   float64 `json:"fov"`
}

// Render groups the shading knobs that feed uniforms directly.
type Render struct {
	Background  [3]float64 `json:"background"`
	LightDir    [3]float64 `json:"lightDir"`
	Ambient     float64    `json:"ambient"`
	ShadowSoft  float64    `json:"shadowSoft"`
	Density     float64    `json:"density"`
	TrapScale   float64    `json:"trapScale"`
	TrapShift   float64    `json:"trapShift"`
	EscapeScale float64    `json:"escapeScale"`
}

// Flags mirrors shader.Flags with serialization-friendly fields.
type Flags struct {
	Lighting         bool   `json:"lighting"`
	Shadows          bool   `json:"shadows"`
	AmbientOcclusion bool   `json:"ao"`
	Color            string `json:"color"`
	Opacity          string `json:"opacity"`
}

// Scene is the full mutable state. Angles are keyed by rotation-plane
// name ("XY", "XW", "A6A9", ...) and stored in degrees; offsets shift
// the slice origin along axes the viewport does not span (indices 3
// and up).
type Scene struct {
	Dim    int    `json:"dim"`
	Family string `json:"family"`

	Angles  map[string]float64 `json:"angles,omitempty"`
	Offsets []float64          `json:"offsets,omitempty"`

	Params FamilyParams `json:"params"`

	Iterations int     `json:"iterations"`
	Bailout    float64 `json:"bailout"`
	// Safety scales march steps; zero picks the family default.
	Safety float64 `json:"safety,omitempty"`

	MaxSteps int     `json:"maxSteps"`
	MaxDist  float64 `json:"maxDist"`
	EpsBase  float64 `json:"epsBase"`
	EpsScale float64 `json:"epsScale"`

	Flags  Flags  `json:"flags"`
	Camera Camera `json:"camera"`
	Render Render `json:"render"`

	// Palette anchors are hex colors blended through HCL space into
	// the fixed-size palette table.
	Palette []string `json:"palette"`

	// Wireframe overlays a polytope in the same slice; empty disables.
	Wireframe string `json:"wireframe,omitempty"`
}

// Clone deep-copies the scene so an edit can be tried and rolled back.
func (s *Scene) Clone() *Scene {
	c := *s
	c.Angles = maps.Clone(s.Angles)
	c.Offsets = slices.Clone(s.Offsets)
	c.Palette = slices.Clone(s.Palette)
	c.Params.KaliC = slices.Clone(s.Params.KaliC)
	return &c
}

// New returns the state the viewer starts with: a 4-D hyperbulb with
// lighting, no rotation, camera pulled back far enough to frame the
// unit-radius body.
func New() *Scene {
	return &Scene{
		Dim:        4,
		Family:     "hyperbulb",
		Angles:     map[string]float64{},
		Iterations: 32,
		Bailout:    4,
		MaxSteps:   160,
		MaxDist:    12,
		EpsBase:    1e-3,
		EpsScale:   1.2e-3,
		Flags: Flags{
			Lighting: true,
			Color:    "palette",
			Opacity:  "solid",
		},
		Camera: Camera{Yaw: 30, Pitch: 20, Distance: 3.2, FovDeg: 60},
		Render: Render{
			Background:  [3]float64{0.02, 0.02, 0.03},
			LightDir:    [3]float64{0.5, 0.8, -0.3},
			Ambient:     0.22,
			ShadowSoft:  8,
			Density:     0.35,
			TrapScale:   0.45,
			TrapShift:   0.08,
			EscapeScale: 3,
		},
		Palette: []string{"#0b1a40", "#2166ac", "#67a9cf", "#f7f7f7", "#fddbc7", "#ef8a62", "#b2182b"},
	}
}
