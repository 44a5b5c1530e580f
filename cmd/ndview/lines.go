package main

import (
	"fmt"
	"math"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lukaszgryglicki/ndview/internal/march"
	"github.com/lukaszgryglicki/ndview/internal/nd"
	"github.com/lukaszgryglicki/ndview/internal/polytope"
)

// Wireframe vertices carry their viewport position plus how far off
// the slice subspace the N-D vertex sits; the fragment stage fades
// distant structure so depth along unseen axes stays readable.
const lineVertexSrc = `#version 460 core
uniform mat4 uMVP;
in vec4 vert;
out float vOff;
void main() {
	vOff = vert.w;
	gl_Position = uMVP * vec4(vert.xyz, 1.0);
}
`

const lineFragmentSrc = `#version 460 core
uniform vec3 uColor;
uniform float uAlpha;
in float vOff;
out vec4 fragColor;
void main() {
	float fade = clamp(1.0 - 0.6 * vOff, 0.15, 1.0);
	fragColor = vec4(uColor, uAlpha * fade);
}
`

type edgeMode uint8

const (
	edgesShort edgeMode = iota
	edgesKNN
)

func (m edgeMode) String() string {
	if m == edgesKNN {
		return "knn"
	}
	return "short"
}

type viewMode uint8

const (
	viewSlice viewMode = iota
	viewPerspective
)

func (m viewMode) String() string {
	if m == viewPerspective {
		return "perspective"
	}
	return "slice"
}

// lineRenderer overlays polytope wireframes on the raymarched frame.
// The N-D vertex set and its edge graph are cached per shape and
// dimension; only the vertex projection is redone when the angles or
// the slice move.
type lineRenderer struct {
	prog     uint32
	attrib   uint32
	mvpLoc   int32
	colorLoc int32
	alphaLoc int32

	vao     uint32
	lineVBO uint32
	faceVBO uint32

	lineCount int32
	faceCount int32

	shape string
	dim   int
	mode  edgeMode
	view  viewMode
	faces bool

	verts []nd.Point
	edges [][2]int
	tris  [][3]int
}

func newLineRenderer() *lineRenderer {
	r := &lineRenderer{}
	id, err := linkProgram(lineVertexSrc, lineFragmentSrc)
	if err != nil {
		// The sources are static; a failure here is a driver problem
		// the raymarch programs would hit too.
		panic(fmt.Sprintf("wireframe program: %v", err))
	}
	r.prog = id
	gl.BindFragDataLocation(id, 0, gl.Str("fragColor\x00"))
	r.attrib = uint32(gl.GetAttribLocation(id, gl.Str("vert\x00")))
	r.mvpLoc = gl.GetUniformLocation(id, gl.Str("uMVP\x00"))
	r.colorLoc = gl.GetUniformLocation(id, gl.Str("uColor\x00"))
	r.alphaLoc = gl.GetUniformLocation(id, gl.Str("uAlpha\x00"))
	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.lineVBO)
	gl.GenBuffers(1, &r.faceVBO)
	return r
}

func (r *lineRenderer) destroy() {
	gl.DeleteBuffers(1, &r.faceVBO)
	gl.DeleteBuffers(1, &r.lineVBO)
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteProgram(r.prog)
}

// cycleEdgeMode flips between minimal-edge and k-nearest graphs. The
// k-nearest view is denser and suits root systems, where "the" edge
// set is a matter of taste.
func (r *lineRenderer) cycleEdgeMode() {
	r.mode = (r.mode + 1) % 2
	r.shape = "" // force geometry rebuild
	fmt.Printf("wireframe edges: %s\n", r.mode)
}

func (r *lineRenderer) toggleFaces() {
	r.faces = !r.faces
}

// cycleView flips the wireframe between the slice view, which shares
// the raymarch cross-section, and a perspective projection of the
// whole rotated polytope with higher axes foreshortened.
func (r *lineRenderer) cycleView() {
	r.view = (r.view + 1) % 2
	fmt.Printf("wireframe view: %s\n", r.view)
}

// rebuild refreshes geometry caches and projects every vertex. The
// slice view maps through the slice basis: position = ((v-origin)·X,
// ·Y, ·Z), off-slice distance = |v - origin - position|. The
// perspective view rotates the vertex and divides by its higher
// depth; the result is scaled back by the projection distance so a
// vertex at depth zero keeps its modeled size and the two views stay
// comparable.
func (r *lineRenderer) rebuild(shape string, dim int, basis nd.SliceBasis, rot nd.Mat) error {
	if r.shape != shape || r.dim != dim {
		verts, err := polytope.Build(shape, dim)
		if err != nil {
			return err
		}
		r.verts = verts
		switch r.mode {
		case edgesKNN:
			r.edges = polytope.KNNEdges(verts, dim)
		default:
			r.edges = polytope.ShortEdges(verts)
		}
		r.tris = polytope.Triangles(len(verts), r.edges)
		r.shape, r.dim = shape, dim
		debugf("wireframe %s d%d: %d vertices, %d edges, %d triangles",
			shape, dim, len(verts), len(r.edges), len(r.tris))
	}

	proj := make([][4]float32, len(r.verts))
	if r.view == viewPerspective {
		for i, v := range r.verts {
			w := rot.MulPoint(v)
			pos := nd.Perspective(w, nd.ProjectionDistance)
			h := nd.HigherDepth(w)
			proj[i] = [4]float32{
				float32(pos[0] * nd.ProjectionDistance),
				float32(pos[1] * nd.ProjectionDistance),
				float32(pos[2] * nd.ProjectionDistance),
				float32(math.Abs(h)),
			}
		}
	} else {
		for i, v := range r.verts {
			var rel [nd.MaxDim]nd.Real
			for k := 0; k < dim; k++ {
				rel[k] = v.E[k] - basis.Origin.E[k]
			}
			x := dotN(rel, basis.X.E, dim)
			y := dotN(rel, basis.Y.E, dim)
			z := dotN(rel, basis.Z.E, dim)
			off := 0.0
			for k := 0; k < dim; k++ {
				d := rel[k] - x*basis.X.E[k] - y*basis.Y.E[k] - z*basis.Z.E[k]
				off += d * d
			}
			proj[i] = [4]float32{float32(x), float32(y), float32(z), float32(math.Sqrt(off))}
		}
	}

	lines := make([]float32, 0, len(r.edges)*8)
	for _, e := range r.edges {
		lines = append(lines, proj[e[0]][:]...)
		lines = append(lines, proj[e[1]][:]...)
	}
	r.lineCount = int32(len(lines) / 4)
	r.bufferData(r.lineVBO, lines)

	tris := make([]float32, 0, len(r.tris)*12)
	for _, tr := range r.tris {
		tris = append(tris, proj[tr[0]][:]...)
		tris = append(tris, proj[tr[1]][:]...)
		tris = append(tris, proj[tr[2]][:]...)
	}
	r.faceCount = int32(len(tris) / 4)
	r.bufferData(r.faceVBO, tris)
	return nil
}

func (r *lineRenderer) bufferData(vbo uint32, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.DYNAMIC_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
}

// draw renders the overlay with the same camera the raymarch uses, so
// wireframe and field stay registered.
func (r *lineRenderer) draw(cam march.Camera, aspect float32) {
	if r.lineCount == 0 && (!r.faces || r.faceCount == 0) {
		return
	}
	fovy := 2 * float32(math.Atan(float64(cam.FovTan)))
	projM := mgl32.Perspective(fovy, aspect, 0.05, 100)
	eye := mgl32.Vec3{cam.Pos[0], cam.Pos[1], cam.Pos[2]}
	center := eye.Add(mgl32.Vec3{cam.Fwd[0], cam.Fwd[1], cam.Fwd[2]})
	up := mgl32.Vec3{cam.Up[0], cam.Up[1], cam.Up[2]}
	mvp := projM.Mul4(mgl32.LookAtV(eye, center, up))

	gl.UseProgram(r.prog)
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, &mvp[0])
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.BindVertexArray(r.vao)

	if r.faces && r.faceCount > 0 {
		gl.Uniform3f(r.colorLoc, 0.55, 0.8, 1.0)
		gl.Uniform1f(r.alphaLoc, 0.12)
		r.drawBuffer(r.faceVBO, gl.TRIANGLES, r.faceCount)
	}
	if r.lineCount > 0 {
		gl.Uniform3f(r.colorLoc, 0.62, 0.86, 1.0)
		gl.Uniform1f(r.alphaLoc, 0.9)
		r.drawBuffer(r.lineVBO, gl.LINES, r.lineCount)
	}
	gl.Disable(gl.BLEND)
}

func (r *lineRenderer) drawBuffer(vbo uint32, mode uint32, count int32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.EnableVertexAttribArray(r.attrib)
	gl.VertexAttribPointerWithOffset(r.attrib, 4, gl.FLOAT, false, 4*4, 0)
	gl.DrawArrays(mode, 0, count)
}

func dotN(a [nd.MaxDim]nd.Real, b [nd.MaxDim]nd.Real, dim int) nd.Real {
	s := nd.Real(0)
	for k := 0; k < dim; k++ {
		s += a[k] * b[k]
	}
	return s
}

// wireframeNames lists catalog shapes that exist at a dimension.
func wireframeNames(dim int) []string {
	var names []string
	for _, g := range polytope.Catalog() {
		if dim >= g.MinDim && dim <= g.MaxDim {
			names = append(names, g.Name)
		}
	}
	return names
}
