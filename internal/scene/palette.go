package scene

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/lukaszgryglicki/ndview/internal/shader"
)

// BuildPalette blends anchor hex colors through HCL space into the
// fixed-size table the shaders index. HCL keeps perceived lightness
// moving evenly between anchors, which reads much better on orbit
// traps than plain RGB lerp.
func BuildPalette(anchors []string) ([shader.PaletteSize][3]float32, error) {
	var out [shader.PaletteSize][3]float32
	if len(anchors) < 2 {
		return out, fmt.Errorf("palette needs at least 2 anchors, got %d", len(anchors))
	}
	cols := make([]colorful.Color, len(anchors))
	for i, a := range anchors {
		c, err := colorful.Hex(a)
		if err != nil {
			return out, fmt.Errorf("palette anchor %d: %w", i, err)
		}
		cols[i] = c
	}
	for i := range out {
		pos := float64(i) / float64(shader.PaletteSize-1) * float64(len(cols)-1)
		seg := int(pos)
		if seg >= len(cols)-1 {
			seg = len(cols) - 2
		}
		c := cols[seg].BlendHcl(cols[seg+1], pos-float64(seg)).Clamped()
		out[i] = [3]float32{float32(c.R), float32(c.G), float32(c.B)}
	}
	return out, nil
}
