package shader

import (
	"fmt"

	"github.com/lukaszgryglicki/ndview/internal/nd"
)

// CompositionError reports a variant key that cannot be turned into a
// program: unknown family, dimension outside the family's range, or a
// feature combination the module set does not support.
type CompositionError struct {
	Key    VariantKey
	Reason string
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("compose %s: %s", e.Key, e.Reason)
}

// Composer assembles fragment-shader sources for variant keys from a
// fixed set of registered families.
type Composer struct {
	families map[string]Family
}

// NewComposer registers the given families. Registering two families
// with the same name is a programming error.
func NewComposer(families ...Family) (*Composer, error) {
	c := &Composer{families: make(map[string]Family, len(families))}
	for _, f := range families {
		name := f.Name()
		if _, dup := c.families[name]; dup {
			return nil, fmt.Errorf("composer: duplicate family %q", name)
		}
		c.families[name] = f
	}
	return c, nil
}

// Families lists the registered family names in unspecified order.
func (c *Composer) Families() []string {
	names := make([]string, 0, len(c.families))
	for name := range c.families {
		names = append(names, name)
	}
	return names
}

func (c *Composer) validate(key VariantKey) (Family, error) {
	fam, ok := c.families[key.Family]
	if !ok {
		return nil, &CompositionError{Key: key, Reason: fmt.Sprintf("unknown family %q", key.Family)}
	}
	if !nd.ValidDim(key.Dim) {
		return nil, &CompositionError{Key: key, Reason: fmt.Sprintf("dimension %d outside [%d,%d]", key.Dim, nd.MinDim, nd.MaxDim)}
	}
	lo, hi := fam.DimRange()
	if key.Dim < lo || key.Dim > hi {
		return nil, &CompositionError{Key: key, Reason: fmt.Sprintf("family %s supports dimensions %d..%d, not %d", key.Family, lo, hi, key.Dim)}
	}
	f := key.Flags
	if f.Color < ColorPalette || f.Color > ColorNormal {
		return nil, &CompositionError{Key: key, Reason: fmt.Sprintf("unknown color mode %d", int(f.Color))}
	}
	if f.Opacity < OpacitySolid || f.Opacity > OpacityVolumetric {
		return nil, &CompositionError{Key: key, Reason: fmt.Sprintf("unknown opacity mode %d", int(f.Opacity))}
	}
	if f.Shadows && !f.Lighting {
		return nil, &CompositionError{Key: key, Reason: "shadows require lighting"}
	}
	if f.Opacity == OpacityVolumetric {
		if f.Lighting || f.Shadows || f.AmbientOcclusion {
			return nil, &CompositionError{Key: key, Reason: "volumetric opacity cannot shade surfaces"}
		}
		if f.Color == ColorNormal {
			return nil, &CompositionError{Key: key, Reason: "volumetric opacity has no surface normal"}
		}
	}
	return fam, nil
}

// Compose validates the key and assembles the fragment source. Modules
// are emitted in a fixed order regardless of request order, so equal
// keys always yield byte-identical sources. The returned uniform list
// is in declaration order; the frame packer walks it verbatim.
func (c *Composer) Compose(key VariantKey) (*CompiledVariant, error) {
	fam, err := c.validate(key)
	if err != nil {
		return nil, err
	}

	flags := key.Flags
	needNormal := flags.Opacity == OpacitySolid &&
		(flags.Lighting || flags.AmbientOcclusion || flags.Color == ColorNormal)

	uniforms := append([]UniformSpec(nil), sharedUniforms(key.Dim)...)
	if flags.Lighting {
		uniforms = append(uniforms, lightingUniforms...)
	}
	if flags.Shadows {
		uniforms = append(uniforms, shadowUniforms...)
	}
	switch flags.Color {
	case ColorPalette:
		uniforms = append(uniforms, paletteUniforms...)
	case ColorEscape:
		uniforms = append(uniforms, escapeUniforms...)
	}
	if flags.Opacity == OpacityVolumetric {
		uniforms = append(uniforms, volumetricUniforms...)
	}
	famUniforms := fam.Uniforms(key.Dim)
	uniforms = append(uniforms, famUniforms...)

	b := make([]byte, 0, 8192)
	b = fmt.Appendf(b, headerFmt, key.Dim, MaxStepCap, MaxIterCap, PaletteSize)
	for _, u := range uniforms {
		b = append(b, u.decl()...)
		b = append(b, '\n')
	}
	b = appendModule(b, "slice", sliceSource)
	b = appendModule(b, key.Family, "")
	b = fam.AppendDE(b)
	b = appendModule(b, "field", fieldSource)
	if needNormal {
		b = appendModule(b, "normal", normalSource)
	}
	if flags.AmbientOcclusion {
		b = appendModule(b, "ao", aoSource)
	}
	if flags.Lighting {
		b = appendModule(b, "lighting", lightingSource)
	}
	if flags.Shadows {
		b = appendModule(b, "shadow", shadowSource)
	}
	switch flags.Color {
	case ColorPalette:
		b = appendModule(b, "color.palette", colorPaletteSource)
	case ColorEscape:
		b = appendModule(b, "color.escape", colorEscapeSource)
	case ColorNormal:
		b = appendModule(b, "color.normal", colorNormalSource)
	}
	if flags.Opacity == OpacityVolumetric {
		b = appendModule(b, "main.volumetric", mainVolumetricSource)
	} else {
		b = appendModule(b, "main.solid", "")
		b = append(b, mainSolidHead...)
		if needNormal {
			b = append(b, mainLineNormal...)
		} else {
			b = append(b, mainLineNoNormal...)
		}
		b = append(b, mainLineColor...)
		if flags.Lighting {
			b = append(b, mainLineLighting...)
		}
		if flags.AmbientOcclusion {
			b = append(b, mainLineAO...)
		}
		if flags.Shadows {
			b = append(b, mainLineShadow...)
		}
		b = append(b, mainSolidTail...)
	}

	return &CompiledVariant{Key: key, Source: string(b), Uniforms: uniforms}, nil
}

// appendModule writes the banner comment for a module followed by its
// source. Banners keep driver info-log line numbers attributable to a
// module when a composed program fails to compile.
func appendModule(dst []byte, name string, src string) []byte {
	dst = append(dst, "// module: "...)
	dst = append(dst, name...)
	dst = append(dst, '\n')
	dst = append(dst, src...)
	return dst
}
