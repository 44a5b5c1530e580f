package main

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/lukaszgryglicki/ndview/internal/nd"
	"github.com/lukaszgryglicki/ndview/internal/polytope"
	"github.com/lukaszgryglicki/ndview/internal/scene"
	"github.com/lukaszgryglicki/ndview/internal/shader"
)

const snapshotPath = "ndview-scene.json"

func (a *app) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Release {
		return
	}
	shift := mods&glfw.ModShift != 0

	switch key {
	case glfw.KeyEscape:
		a.win.SetShouldClose(true)

	case glfw.Key2, glfw.Key3, glfw.Key4, glfw.Key5, glfw.Key6, glfw.Key7, glfw.Key8, glfw.Key9:
		a.setDim(int(key - glfw.Key0))
	case glfw.Key0:
		a.setDim(10)
	case glfw.Key1:
		a.setDim(11)

	case glfw.KeyF:
		a.cycleFamily(step(shift))
	case glfw.KeyTab:
		a.cyclePlane(step(shift))
	case glfw.KeyLeft:
		a.rotate(-angleStep(shift))
	case glfw.KeyRight:
		a.rotate(angleStep(shift))
	case glfw.KeyR:
		a.mutate(func(s *scene.Scene) {
			s.Angles = map[string]float64{}
			if shift {
				s.Offsets = nil
			}
		})

	case glfw.KeySpace:
		a.spin = !a.spin
		a.setTitle()

	case glfw.KeyZ:
		a.cycleAxis(step(shift))
	case glfw.KeyPageUp:
		a.slide(offsetStep(shift))
	case glfw.KeyPageDown:
		a.slide(-offsetStep(shift))

	case glfw.KeyL:
		a.mutate(func(s *scene.Scene) {
			s.Flags.Lighting = !s.Flags.Lighting
			if !s.Flags.Lighting {
				s.Flags.Shadows = false
			}
		})
	case glfw.KeyS:
		a.mutate(func(s *scene.Scene) { s.Flags.Shadows = !s.Flags.Shadows })
	case glfw.KeyO:
		a.mutate(func(s *scene.Scene) { s.Flags.AmbientOcclusion = !s.Flags.AmbientOcclusion })
	case glfw.KeyC:
		a.mutate(func(s *scene.Scene) { s.Flags.Color = nextColor(s.Flags.Color) })
	case glfw.KeyV:
		a.mutate(func(s *scene.Scene) {
			if s.Flags.Opacity == "volumetric" {
				s.Flags.Opacity = "solid"
				s.Flags.Lighting = true
				return
			}
			s.Flags.Opacity = "volumetric"
			s.Flags.Lighting = false
			s.Flags.Shadows = false
			s.Flags.AmbientOcclusion = false
			if s.Flags.Color == "normal" {
				s.Flags.Color = "palette"
			}
		})

	case glfw.KeyMinus, glfw.KeyKPSubtract:
		a.mutate(func(s *scene.Scene) { s.Iterations = max(1, s.Iterations-iterStep(shift)) })
	case glfw.KeyEqual, glfw.KeyKPAdd:
		a.mutate(func(s *scene.Scene) {
			s.Iterations = min(shader.MaxIterCap, s.Iterations+iterStep(shift))
		})

	case glfw.KeyW:
		if shift {
			a.lines.cycleEdgeMode()
			a.geomDirty = true
		} else {
			a.cycleWireframe()
		}
	case glfw.KeyT:
		a.lines.toggleFaces()
	case glfw.KeyP:
		a.lines.cycleView()
		a.geomDirty = true

	case glfw.KeyHome:
		a.mutate(func(s *scene.Scene) { s.Camera = scene.New().Camera })

	case glfw.KeyLeftBracket:
		a.cyclePreset(-1)
	case glfw.KeyRightBracket:
		a.cyclePreset(1)

	case glfw.KeyF5:
		if err := a.sc.Save(snapshotPath); err != nil {
			log.Printf("save: %v", err)
			return
		}
		fmt.Printf("saved %s\n", snapshotPath)
	case glfw.KeyF9:
		sc, err := scene.Load(snapshotPath)
		if err != nil {
			log.Printf("load: %v", err)
			return
		}
		a.sc = sc
		a.clampSelectors()
		a.geomDirty = true
		a.setTitle()
		fmt.Printf("loaded %s\n", snapshotPath)
	case glfw.KeyF12:
		a.screenshot()
	}
}

func step(shift bool) int {
	if shift {
		return -1
	}
	return 1
}

func angleStep(shift bool) float64 {
	if shift {
		return 15
	}
	return 2
}

func offsetStep(shift bool) float64 {
	if shift {
		return 0.25
	}
	return 0.05
}

func iterStep(shift bool) int {
	if shift {
		return 32
	}
	return 8
}

func nextColor(c string) string {
	switch c {
	case "palette":
		return "escape"
	case "escape":
		return "normal"
	}
	return "palette"
}

func (a *app) setDim(dim int) {
	a.mutate(func(s *scene.Scene) {
		s.Dim = dim
		// Stale state above the new dimension would fail validation.
		for name := range s.Angles {
			if p, err := nd.PlaneByName(name); err == nil && p.J >= dim {
				delete(s.Angles, name)
			}
		}
		if len(s.Offsets) > dim {
			s.Offsets = s.Offsets[:dim]
		}
		if s.Wireframe != "" {
			if g, err := polytope.Lookup(s.Wireframe); err == nil && (dim < g.MinDim || dim > g.MaxDim) {
				s.Wireframe = ""
			}
		}
	})
}

func (a *app) cycleFamily(d int) {
	cur := 0
	for i, name := range a.families {
		if name == a.sc.Family {
			cur = i
			break
		}
	}
	// A family may not span the current dimension; skip past those.
	for i := 1; i <= len(a.families); i++ {
		next := a.families[mod(cur+d*i, len(a.families))]
		prev := a.sc.Family
		a.mutate(func(s *scene.Scene) { s.Family = next })
		if a.sc.Family != prev {
			return
		}
	}
}

func (a *app) cyclePlane(d int) {
	a.activePlane = mod(a.activePlane+d, len(nd.Planes(a.sc.Dim)))
	a.setTitle()
}

func (a *app) rotate(deg float64) {
	name := a.plane().String()
	a.mutate(func(s *scene.Scene) {
		v := math.Mod(s.Angles[name]+deg, 360)
		if v == 0 {
			delete(s.Angles, name)
			return
		}
		s.Angles[name] = v
	})
}

func (a *app) cycleAxis(d int) {
	if a.sc.Dim <= 3 {
		return
	}
	a.activeAxis = 3 + mod(a.activeAxis-3+d, a.sc.Dim-3)
	a.setTitle()
}

func (a *app) slide(d float64) {
	if a.sc.Dim <= 3 {
		return
	}
	axis := a.activeAxis
	a.mutate(func(s *scene.Scene) {
		for len(s.Offsets) <= axis {
			s.Offsets = append(s.Offsets, 0)
		}
		s.Offsets[axis] += d
	})
}

func (a *app) cycleWireframe() {
	names := append([]string{""}, wireframeNames(a.sc.Dim)...)
	cur := 0
	for i, n := range names {
		if n == a.sc.Wireframe {
			cur = i
			break
		}
	}
	a.mutate(func(s *scene.Scene) { s.Wireframe = names[(cur+1)%len(names)] })
}

func (a *app) cyclePreset(d int) {
	if len(a.presets) == 0 {
		return
	}
	a.presetIdx = mod(a.presetIdx+d, len(a.presets))
	p := a.presets[a.presetIdx]
	a.sc = p.Scene.Clone()
	a.clampSelectors()
	a.geomDirty = true
	a.setTitle()
	fmt.Printf("preset %s\n", p.Name)
}

func (a *app) screenshot() {
	name := fmt.Sprintf("ndview-%s.png", time.Now().Format("20060102-150405"))
	if err := renderPNG(a.sc, name, a.width, a.height); err != nil {
		log.Printf("screenshot: %v", err)
	}
}

func (a *app) onMouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	a.dragging = action == glfw.Press
	a.lastX, a.lastY = a.win.GetCursorPos()
}

func (a *app) onCursorPos(_ *glfw.Window, x, y float64) {
	if !a.dragging {
		return
	}
	dx, dy := x-a.lastX, y-a.lastY
	a.lastX, a.lastY = x, y
	a.mutate(func(s *scene.Scene) {
		s.Camera.Yaw = math.Mod(s.Camera.Yaw+dx*0.4, 360)
		s.Camera.Pitch = clampF(s.Camera.Pitch-dy*0.4, -89, 89)
	})
}

func (a *app) onScroll(_ *glfw.Window, _, dy float64) {
	a.mutate(func(s *scene.Scene) {
		s.Camera.Distance = clampF(s.Camera.Distance*math.Pow(0.92, dy), 0.2, 50)
	})
}

func mod(i, n int) int {
	return ((i % n) + n) % n
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
