package main

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/lukaszgryglicki/ndview/internal/fractal"
	"github.com/lukaszgryglicki/ndview/internal/nd"
	"github.com/lukaszgryglicki/ndview/internal/scene"
	"github.com/lukaszgryglicki/ndview/internal/shader"
)

func init() {
	// GLFW event handling and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

type app struct {
	win   *glfw.Window
	sc    *scene.Scene
	good  *scene.Scene
	cache *shader.Cache
	pipe  *pipeline
	lines *lineRenderer

	families []string
	presets  []Preset

	// activePlane indexes nd.Planes(sc.Dim); activeAxis is the slice
	// axis the offset keys move, in [3,dim).
	activePlane int
	activeAxis  int
	presetIdx   int

	width  int
	height int
	start  time.Time
	tick   time.Time

	spin      bool
	geomDirty bool
	dragging  bool
	lastX     float64
	lastY     float64
}

// spinRate drives the auto-spin toggle, degrees per second on the
// active plane.
const spinRate = 20.0

func runViewer(sc *scene.Scene, width, height int) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	win, err := glfw.CreateWindow(width, height, "ndview", nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	debugf("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	ests, err := fractal.Defaults()
	if err != nil {
		return err
	}
	comp, err := shader.NewComposer(fractal.AsFamilies(ests)...)
	if err != nil {
		return err
	}
	presets, err := Presets()
	if err != nil {
		return err
	}

	a := &app{
		win:       win,
		sc:        sc,
		good:      sc.Clone(),
		cache:     shader.NewCache(comp),
		pipe:      newPipeline(),
		lines:     newLineRenderer(),
		families:  fractal.Names(ests),
		presets:   presets,
		presetIdx: -1,
		start:     time.Now(),
		tick:      time.Now(),
		geomDirty: true,
	}
	defer a.pipe.destroy()
	defer a.lines.destroy()

	a.width, a.height = win.GetFramebufferSize()
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		a.width, a.height = w, h
		gl.Viewport(0, 0, int32(w), int32(h))
	})
	win.SetKeyCallback(a.onKey)
	win.SetMouseButtonCallback(a.onMouseButton)
	win.SetCursorPosCallback(a.onCursorPos)
	win.SetScrollCallback(a.onScroll)
	gl.Viewport(0, 0, int32(a.width), int32(a.height))

	gl.ClearColor(0, 0, 0, 1)
	a.setTitle()
	for !win.ShouldClose() {
		now := time.Now()
		dt := now.Sub(a.tick).Seconds()
		a.tick = now
		if a.spin {
			a.rotate(spinRate * dt)
		}
		gl.Clear(gl.COLOR_BUFFER_BIT)
		a.draw()
		win.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

// draw renders one frame. A variant the driver rejects is dropped from
// the cache and the scene reverts to the last state that drew cleanly,
// so a bad flag combination can never wedge the viewer.
func (a *app) draw() {
	if a.width < 1 || a.height < 1 {
		return
	}
	fr, err := a.sc.Frame(a.width, a.height, time.Since(a.start).Seconds())
	if err != nil {
		log.Printf("frame: %v", err)
		a.revert()
		return
	}
	v, cached, err := a.cache.GetOrCompose(fr.Key)
	if err != nil {
		log.Printf("compose: %v", err)
		a.revert()
		return
	}
	if !cached {
		debugf("composed %s (%d bytes)", fr.Key, len(v.Source))
	}
	prog, err := a.pipe.use(v)
	if err != nil {
		log.Printf("%v", err)
		a.cache.Drop(fr.Key)
		a.pipe.drop(fr.Key)
		a.revert()
		return
	}
	if err := prog.upload(v.Uniforms, fr.Uniforms); err != nil {
		log.Printf("upload %s: %v", fr.Key, err)
		a.revert()
		return
	}
	a.pipe.draw()

	if a.sc.Wireframe != "" {
		if a.geomDirty {
			if err := a.lines.rebuild(a.sc.Wireframe, a.sc.Dim, fr.Basis, a.sc.Rotation()); err != nil {
				log.Printf("wireframe: %v", err)
				a.sc.Wireframe = ""
			}
			a.geomDirty = false
		}
		a.lines.draw(fr.Options.Camera, float32(a.width)/float32(a.height))
	}

	a.good = a.sc.Clone()
}

// revert rolls the scene back to the last state that produced a frame.
func (a *app) revert() {
	a.sc = a.good.Clone()
	a.clampSelectors()
	a.setTitle()
}

// mutate applies an edit, validates the result and rolls back when the
// edit produced an unrenderable state. Edits that survive mark the
// wireframe geometry dirty; most of them move the slice.
func (a *app) mutate(fn func(*scene.Scene)) {
	prev := a.sc.Clone()
	fn(a.sc)
	if err := a.sc.Validate(); err != nil {
		log.Printf("%v", err)
		a.sc = prev
		return
	}
	a.clampSelectors()
	a.geomDirty = true
	a.setTitle()
}

// clampSelectors keeps plane and axis selection inside the current
// dimension after dim or family switches.
func (a *app) clampSelectors() {
	if n := len(nd.Planes(a.sc.Dim)); a.activePlane >= n {
		a.activePlane = n - 1
	}
	if a.activePlane < 0 {
		a.activePlane = 0
	}
	if a.activeAxis < 3 {
		a.activeAxis = 3
	}
	if a.activeAxis >= a.sc.Dim {
		a.activeAxis = 3
	}
}

func (a *app) plane() nd.Plane {
	return nd.Planes(a.sc.Dim)[a.activePlane]
}

func (a *app) setTitle() {
	p := a.plane()
	title := fmt.Sprintf("ndview | %s d%d | plane %s %+.0f deg | iter %d",
		a.sc.Family, a.sc.Dim, p, a.sc.Angles[p.String()], a.sc.Iterations)
	if a.sc.Dim > 3 {
		title += fmt.Sprintf(" | axis %s %+.2f", nd.AxisName(a.activeAxis), a.offset(a.activeAxis))
	}
	if a.sc.Wireframe != "" {
		title += " | " + a.sc.Wireframe
	}
	if a.spin {
		title += " | spin"
	}
	a.win.SetTitle(title)
}

func (a *app) offset(axis int) float64 {
	if axis < len(a.sc.Offsets) {
		return a.sc.Offsets[axis]
	}
	return 0
}
