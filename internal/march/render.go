package march

import (
	"fmt"
	"image"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/chewxy/math32"

	"github.com/lukaszgryglicki/ndview/internal/fractal"
	"github.com/lukaszgryglicki/ndview/internal/shader"
)

// Camera is the viewer camera frozen to float32. Right, Up and Fwd are
// expected orthonormal; FovTan is tan of half the vertical field of view.
type Camera struct {
	Pos    [3]float32
	Right  [3]float32
	Up     [3]float32
	Fwd    [3]float32
	FovTan float32
}

// Options configure one offline render. The shading fields mirror the
// uniforms of the composed program for the same flags, so a CPU frame
// and a GPU frame of the same scene should agree up to float noise.
type Options struct {
	Width  int
	Height int
	Camera Camera
	Flags  shader.Flags

	Background  [3]float32
	Palette     [shader.PaletteSize][3]float32
	TrapScale   float32
	TrapShift   float32
	EscapeScale float32
	LightDir    [3]float32
	Ambient     float32
	ShadowSoft  float32
	Density     float32

	// Workers defaults to GOMAXPROCS-ish; rows are interleaved across
	// workers so late rows don't pile onto one goroutine.
	Workers int
	// Progress, when set, is called from worker goroutines roughly
	// every percent of finished rows.
	Progress func(done, total int)
	Stats    *Stats
}

type shadeCtx struct {
	f          *Field
	p          Params
	o          *Options
	needNormal bool
}

// Render raymarches the field into a 16-bit image.
func Render(f *Field, p Params, o Options) (*image.NRGBA64, error) {
	if f == nil {
		return nil, fmt.Errorf("render: nil field")
	}
	if o.Width < 1 || o.Height < 1 {
		return nil, fmt.Errorf("render: image size %dx%d", o.Width, o.Height)
	}
	if p.MaxSteps < 1 || p.MaxDist <= 0 || p.Safety <= 0 {
		return nil, fmt.Errorf("render: bad march params %+v", p)
	}

	ctx := &shadeCtx{
		f: f, p: p, o: &o,
		needNormal: o.Flags.Opacity == shader.OpacitySolid &&
			(o.Flags.Lighting || o.Flags.AmbientOcclusion || o.Flags.Color == shader.ColorNormal),
	}
	img := image.NewNRGBA64(image.Rect(0, 0, o.Width, o.Height))

	workers := o.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > o.Height {
		workers = o.Height
	}
	step := o.Height/100 + 1
	var done atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for y := w; y < o.Height; y += workers {
				ctx.row(img, y)
				d := done.Add(1)
				if o.Progress != nil && (d%int64(step) == 0 || d == int64(o.Height)) {
					o.Progress(int(d), o.Height)
				}
			}
		}(w)
	}
	wg.Wait()
	return img, nil
}

func (c *shadeCtx) row(img *image.NRGBA64, y int) {
	h := float32(c.o.Height)
	uvy := (h - 2*float32(y) - 1) / h
	for x := 0; x < c.o.Width; x++ {
		uvx := (2*(float32(x)+0.5) - float32(c.o.Width)) / h
		rd := norm3([3]float32{
			c.o.Camera.Fwd[0] + c.o.Camera.FovTan*(uvx*c.o.Camera.Right[0]+uvy*c.o.Camera.Up[0]),
			c.o.Camera.Fwd[1] + c.o.Camera.FovTan*(uvx*c.o.Camera.Right[1]+uvy*c.o.Camera.Up[1]),
			c.o.Camera.Fwd[2] + c.o.Camera.FovTan*(uvx*c.o.Camera.Right[2]+uvy*c.o.Camera.Up[2]),
		})
		var col [3]float32
		if c.o.Flags.Opacity == shader.OpacityVolumetric {
			col = c.volumetric(rd)
		} else {
			col = c.solid(rd)
		}
		writePixel(img, x, y, col)
	}
}

func (c *shadeCtx) solid(rd [3]float32) [3]float32 {
	ro := c.o.Camera.Pos
	res := Trace(c.f, ro, rd, c.p)
	c.o.Stats.Add(res)
	if res.Outcome != Hit {
		return c.o.Background
	}
	pos := [3]float32{ro[0] + res.T*rd[0], ro[1] + res.T*rd[1], ro[2] + res.T*rd[2]}
	eps := c.p.EpsBase + c.p.EpsScale*res.T
	var n [3]float32
	if c.needNormal {
		n = Normal(c.f, pos, eps)
	}
	col := c.baseColor(res.Sample, res.T, n)
	if c.o.Flags.Lighting {
		col = c.applyLighting(col, n, rd)
	}
	if c.o.Flags.AmbientOcclusion {
		col = scale3(col, c.occlusion(pos, n))
	}
	if c.o.Flags.Shadows {
		col = scale3(col, c.softShadow(pos, n))
	}
	return col
}

func (c *shadeCtx) volumetric(rd [3]float32) [3]float32 {
	ro := c.o.Camera.Pos
	var acc [3]float32
	alpha := float32(0)
	t := float32(0)
	steps := 0
	for i := 0; i < c.p.MaxSteps; i++ {
		if t > c.p.MaxDist {
			break
		}
		steps = i + 1
		s := c.f.At(ro[0]+t*rd[0], ro[1]+t*rd[1], ro[2]+t*rd[2])
		eps := c.p.EpsBase + c.p.EpsScale*t
		if s.Dist < eps {
			a := c.o.Density * (1 - alpha)
			base := c.baseColor(s, t, [3]float32{})
			acc[0] += base[0] * a
			acc[1] += base[1] * a
			acc[2] += base[2] * a
			alpha += a
			if alpha > 0.98 {
				break
			}
			t += math32.Max(math32.Abs(s.Dist), eps)*c.p.Safety + eps
		} else {
			t += s.Dist * c.p.Safety
		}
	}
	out := Miss
	if alpha > 0.01 {
		out = Hit
	}
	c.o.Stats.Add(Result{Outcome: out, T: t, Steps: steps})
	return [3]float32{
		acc[0] + c.o.Background[0]*(1-alpha),
		acc[1] + c.o.Background[1]*(1-alpha),
		acc[2] + c.o.Background[2]*(1-alpha),
	}
}

func (c *shadeCtx) baseColor(s fractal.Sample, t float32, n [3]float32) [3]float32 {
	switch c.o.Flags.Color {
	case shader.ColorEscape:
		x := s.Escape * c.o.EscapeScale / float32(c.p.Iter.Iterations)
		return c.palette(clamp01(x))
	case shader.ColorNormal:
		return [3]float32{n[0]*0.5 + 0.5, n[1]*0.5 + 0.5, n[2]*0.5 + 0.5}
	}
	x := s.Trap*c.o.TrapScale + c.o.TrapShift
	return c.palette(x - math32.Floor(x))
}

func (c *shadeCtx) palette(x float32) [3]float32 {
	f := clamp01(x) * float32(shader.PaletteSize-1)
	i := int(math32.Floor(f))
	j := i + 1
	if j > shader.PaletteSize-1 {
		j = shader.PaletteSize - 1
	}
	fr := f - math32.Floor(f)
	a, b := c.o.Palette[i], c.o.Palette[j]
	return [3]float32{
		a[0] + (b[0]-a[0])*fr,
		a[1] + (b[1]-a[1])*fr,
		a[2] + (b[2]-a[2])*fr,
	}
}

func (c *shadeCtx) applyLighting(base, n, rd [3]float32) [3]float32 {
	l := norm3(c.o.LightDir)
	diff := math32.Max(dot3(n, l), 0)
	hv := norm3([3]float32{l[0] - rd[0], l[1] - rd[1], l[2] - rd[2]})
	spec := math32.Pow(math32.Max(dot3(n, hv), 0), 32)
	k := c.o.Ambient + (1-c.o.Ambient)*diff
	sp := 0.25 * spec * diff
	return [3]float32{base[0]*k + sp, base[1]*k + sp, base[2]*k + sp}
}

func (c *shadeCtx) occlusion(p, n [3]float32) float32 {
	occ := float32(0)
	w := float32(1)
	for i := 1; i <= 5; i++ {
		h := 0.02 * float32(i)
		d := c.f.At(p[0]+n[0]*h, p[1]+n[1]*h, p[2]+n[2]*h).Dist
		occ += w * (h - d)
		w *= 0.6
	}
	return clamp01(1 - 2*occ)
}

func (c *shadeCtx) softShadow(p, n [3]float32) float32 {
	l := norm3(c.o.LightDir)
	base := [3]float32{
		p[0] + n[0]*c.p.EpsBase*2,
		p[1] + n[1]*c.p.EpsBase*2,
		p[2] + n[2]*c.p.EpsBase*2,
	}
	t := 10 * c.p.EpsBase
	res := float32(1)
	for i := 0; i < 64; i++ {
		d := c.f.At(base[0]+l[0]*t, base[1]+l[1]*t, base[2]+l[2]*t).Dist
		if d < c.p.EpsBase {
			return 0.2
		}
		res = math32.Min(res, c.o.ShadowSoft*d/t)
		t += math32.Min(math32.Max(d, c.p.EpsBase), 0.5)
		if t > c.p.MaxDist {
			break
		}
	}
	if res < 0.2 {
		return 0.2
	}
	return math32.Min(res, 1)
}

func writePixel(img *image.NRGBA64, x, y int, col [3]float32) {
	i := img.PixOffset(x, y)
	r := toU16(col[0])
	g := toU16(col[1])
	b := toU16(col[2])
	img.Pix[i+0] = uint8(r >> 8)
	img.Pix[i+1] = uint8(r)
	img.Pix[i+2] = uint8(g >> 8)
	img.Pix[i+3] = uint8(g)
	img.Pix[i+4] = uint8(b >> 8)
	img.Pix[i+5] = uint8(b)
	img.Pix[i+6] = 0xff
	img.Pix[i+7] = 0xff
}

// toU16 applies the same gamma the fragment programs end with.
func toU16(v float32) uint16 {
	v = clamp01(v)
	v = math32.Pow(v, 0.4545)
	return uint16(v*65535 + 0.5)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func scale3(v [3]float32, s float32) [3]float32 {
	return [3]float32{v[0] * s, v[1] * s, v[2] * s}
}
