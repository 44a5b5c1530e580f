// Package polytope generates vertex sets of regular and uniform N-D
// polytopes plus a few root systems, and derives wireframe edges and
// triangle fans from them. Vertices come out in float64 and get frozen
// to GPU precision only when buffers are built.
package polytope

import (
	"fmt"
	"math"

	"github.com/lukaszgryglicki/ndview/internal/nd"
)

// MaxVertices caps generation; the big omnitruncated families blow up
// factorially and anything past this renders as mush anyway.
const MaxVertices = 40000

// Generator names one constructible shape and its dimension span.
type Generator struct {
	Name   string
	MinDim int
	MaxDim int
	Build  func(dim int) ([]nd.Point, error)
}

// Catalog lists every shape in presentation order.
func Catalog() []Generator {
	return []Generator{
		{Name: "hypercube", MinDim: 2, MaxDim: nd.MaxDim, Build: hypercube},
		{Name: "cross", MinDim: 2, MaxDim: nd.MaxDim, Build: cross},
		{Name: "simplex", MinDim: 2, MaxDim: nd.MaxDim, Build: simplex},
		{Name: "demicube", MinDim: 3, MaxDim: nd.MaxDim, Build: demicube},
		{Name: "rectified", MinDim: 2, MaxDim: nd.MaxDim, Build: rectified},
		{Name: "truncated", MinDim: 2, MaxDim: nd.MaxDim, Build: truncated},
		{Name: "omnitruncated", MinDim: 2, MaxDim: nd.MaxDim, Build: omnitruncated},
		{Name: "cell24", MinDim: 4, MaxDim: 4, Build: cell24},
		{Name: "roots-a", MinDim: 2, MaxDim: nd.MaxDim, Build: rootsA},
		{Name: "roots-d", MinDim: 3, MaxDim: nd.MaxDim, Build: rootsD},
		{Name: "roots-e8", MinDim: 8, MaxDim: 8, Build: rootsE8},
	}
}

// Names lists catalog names in catalog order.
func Names() []string {
	cat := Catalog()
	names := make([]string, len(cat))
	for i, g := range cat {
		names[i] = g.Name
	}
	return names
}

// Lookup finds a catalog entry by name.
func Lookup(name string) (Generator, error) {
	for _, g := range Catalog() {
		if g.Name == name {
			return g, nil
		}
	}
	return Generator{}, fmt.Errorf("polytope: no shape named %q", name)
}

// Build generates a named shape at a dimension, centered and scaled to
// unit circumradius.
func Build(name string, dim int) ([]nd.Point, error) {
	g, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if dim < g.MinDim || dim > g.MaxDim {
		return nil, fmt.Errorf("polytope: %s spans dimensions %d..%d, not %d", name, g.MinDim, g.MaxDim, dim)
	}
	verts, err := g.Build(dim)
	if err != nil {
		return nil, err
	}
	return CenterAndScale(dedupe(verts)), nil
}

func capError(name string, dim, need int) error {
	return fmt.Errorf("polytope: %s at dimension %d needs %d vertices, cap is %d", name, dim, need, MaxVertices)
}

// dedupe drops float-identical vertices, comparing on a 1e-9 grid.
func dedupe(verts []nd.Point) []nd.Point {
	type key [nd.MaxDim]int64
	seen := make(map[key]bool, len(verts))
	out := verts[:0]
	for _, v := range verts {
		var k key
		for i := 0; i < v.Dim; i++ {
			k[i] = int64(math.Round(v.E[i] * 1e9))
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}

// CenterAndScale moves the centroid to the origin and scales the set to
// unit circumradius, so every shape fits the same viewport framing.
func CenterAndScale(verts []nd.Point) []nd.Point {
	if len(verts) == 0 {
		return verts
	}
	dim := verts[0].Dim
	var c [nd.MaxDim]nd.Real
	for _, v := range verts {
		for k := 0; k < dim; k++ {
			c[k] += v.E[k]
		}
	}
	inv := 1 / nd.Real(len(verts))
	for k := 0; k < dim; k++ {
		c[k] *= inv
	}
	maxR := nd.Real(0)
	out := make([]nd.Point, len(verts))
	for i, v := range verts {
		for k := 0; k < dim; k++ {
			v.E[k] -= c[k]
		}
		out[i] = v
		r := nd.Real(0)
		for k := 0; k < dim; k++ {
			r += v.E[k] * v.E[k]
		}
		if r > maxR {
			maxR = r
		}
	}
	if maxR == 0 {
		return out
	}
	s := 1 / math.Sqrt(maxR)
	for i := range out {
		for k := 0; k < dim; k++ {
			out[i].E[k] *= s
		}
	}
	return out
}
