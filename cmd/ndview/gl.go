package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/lukaszgryglicki/ndview/internal/shader"
)

// glProgram is one linked variant program plus its uniform locations.
type glProgram struct {
	id   uint32
	locs map[string]int32
}

// pipeline owns the fullscreen-triangle geometry and the linked
// programs, keyed by variant. Linking is the expensive step a variant
// pays once; after that switching variants is a map lookup.
type pipeline struct {
	vao      uint32
	vbo      uint32
	programs map[string]glProgram
}

func newPipeline() *pipeline {
	p := &pipeline{programs: make(map[string]glProgram)}

	// One triangle big enough to cover clip space; the fragment stage
	// does all the work.
	verts := []float32{-1, -1, 3, -1, -1, 3}

	gl.GenVertexArrays(1, &p.vao)
	gl.BindVertexArray(p.vao)
	gl.GenBuffers(1, &p.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)
	return p
}

// use returns the linked program for a composed variant, linking it on
// first sight. A driver rejection surfaces as an error carrying the
// info log; the caller decides what state to fall back to.
func (p *pipeline) use(v *shader.CompiledVariant) (glProgram, error) {
	key := v.Key.String()
	if prog, ok := p.programs[key]; ok {
		gl.UseProgram(prog.id)
		return prog, nil
	}

	id, err := linkProgram(shader.VertexSource, v.Source)
	if err != nil {
		return glProgram{}, fmt.Errorf("variant %s: %w", key, err)
	}
	gl.UseProgram(id)
	gl.BindFragDataLocation(id, 0, gl.Str("fragColor\x00"))

	gl.BindVertexArray(p.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	attrib := uint32(gl.GetAttribLocation(id, gl.Str("vert\x00")))
	gl.EnableVertexAttribArray(attrib)
	gl.VertexAttribPointerWithOffset(attrib, 2, gl.FLOAT, false, 2*4, 0)

	prog := glProgram{id: id, locs: make(map[string]int32, len(v.Uniforms))}
	for _, spec := range v.Uniforms {
		prog.locs[spec.Name] = gl.GetUniformLocation(id, gl.Str(spec.Name+"\x00"))
	}
	p.programs[key] = prog
	debugf("linked %s (%d uniforms)", key, len(v.Uniforms))
	return prog, nil
}

// drop forgets a linked program, freeing the GL object.
func (p *pipeline) drop(key shader.VariantKey) {
	k := key.String()
	if prog, ok := p.programs[k]; ok {
		gl.DeleteProgram(prog.id)
		delete(p.programs, k)
	}
}

func (p *pipeline) destroy() {
	for _, prog := range p.programs {
		gl.DeleteProgram(prog.id)
	}
	p.programs = map[string]glProgram{}
	gl.DeleteBuffers(1, &p.vbo)
	gl.DeleteVertexArrays(1, &p.vao)
}

// upload pushes packed uniform values through the program's location
// table, in declaration order. A spec without a packed value is a
// wiring bug worth failing loudly on.
func (p glProgram) upload(specs []shader.UniformSpec, values map[string][]float32) error {
	for _, spec := range specs {
		vals, ok := values[spec.Name]
		if !ok {
			return fmt.Errorf("uniform %s has no packed value", spec.Name)
		}
		if len(vals) != spec.Floats() {
			return fmt.Errorf("uniform %s: %d values, want %d", spec.Name, len(vals), spec.Floats())
		}
		loc := p.locs[spec.Name]
		if loc < 0 {
			// Declared but optimized out; nothing to upload.
			continue
		}
		n := int32(spec.Arity)
		if n < 1 {
			n = 1
		}
		switch spec.Type {
		case shader.Float:
			gl.Uniform1fv(loc, n, &vals[0])
		case shader.Int:
			ints := make([]int32, len(vals))
			for i, v := range vals {
				ints[i] = int32(v)
			}
			gl.Uniform1iv(loc, n, &ints[0])
		case shader.Vec2:
			gl.Uniform2fv(loc, n, &vals[0])
		case shader.Vec3:
			gl.Uniform3fv(loc, n, &vals[0])
		}
	}
	return nil
}

// draw renders the fullscreen triangle with the bound program.
func (p *pipeline) draw() {
	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
}

func compileShader(src string, kind uint32) (uint32, error) {
	defer runtime.KeepAlive(src)
	csrc, free := gl.Strs(src + "\x00")
	defer free()

	sh := gl.CreateShader(kind)
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var ok int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &ok)
	if ok == gl.FALSE {
		var n int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &n)
		info := strings.Repeat("\x00", int(n+1))
		gl.GetShaderInfoLog(sh, n, nil, gl.Str(info))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("compile: %s", strings.TrimRight(info, "\x00"))
	}
	return sh, nil
}

func linkProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex %w", err)
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment %w", err)
	}
	defer gl.DeleteShader(frag)

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)

	var ok int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		var n int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &n)
		info := strings.Repeat("\x00", int(n+1))
		gl.GetProgramInfoLog(id, n, nil, gl.Str(info))
		gl.DeleteProgram(id)
		return 0, fmt.Errorf("link: %s", strings.TrimRight(info, "\x00"))
	}
	return id, nil
}
