package shader

import "fmt"

// ColorMode selects how a hit is mapped to a base color.
type ColorMode uint8

const (
	// ColorPalette maps the orbit trap through the palette table.
	ColorPalette ColorMode = iota
	// ColorEscape maps the smooth escape count through the palette table.
	ColorEscape
	// ColorNormal shades by surface normal (debug-style view).
	ColorNormal
)

func (m ColorMode) String() string {
	switch m {
	case ColorPalette:
		return "palette"
	case ColorEscape:
		return "escape"
	case ColorNormal:
		return "normal"
	}
	return fmt.Sprintf("color(%d)", uint8(m))
}

// OpacityMode selects the raymarch main loop.
type OpacityMode uint8

const (
	// OpacitySolid raymarches to the first hit and shades a surface.
	OpacitySolid OpacityMode = iota
	// OpacityVolumetric accumulates translucent density along the ray.
	OpacityVolumetric
)

func (m OpacityMode) String() string {
	switch m {
	case OpacitySolid:
		return "solid"
	case OpacityVolumetric:
		return "volumetric"
	}
	return fmt.Sprintf("opacity(%d)", uint8(m))
}

// Flags are the visual features baked into a composed program.
type Flags struct {
	Lighting         bool
	Shadows          bool
	AmbientOcclusion bool
	Color            ColorMode
	Opacity          OpacityMode
}

// VariantKey identifies one composed program. Equal keys always compose
// byte-identical source.
type VariantKey struct {
	Family string
	Dim    int
	Flags  Flags
}

// String is the canonical cache key, e.g.
// "hyperbulb/d4/light+shadow/color=palette/solid".
func (k VariantKey) String() string {
	feat := ""
	if k.Flags.Lighting {
		feat += "+light"
	}
	if k.Flags.Shadows {
		feat += "+shadow"
	}
	if k.Flags.AmbientOcclusion {
		feat += "+ao"
	}
	if feat == "" {
		feat = "+none"
	}
	return fmt.Sprintf("%s/d%d/%s/color=%s/%s",
		k.Family, k.Dim, feat[1:], k.Flags.Color, k.Flags.Opacity)
}
