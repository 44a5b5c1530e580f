package polytope

import (
	"math"
	"math/bits"

	"github.com/lukaszgryglicki/ndview/internal/nd"
)

// hypercube emits all sign combinations of (1,...,1).
func hypercube(dim int) ([]nd.Point, error) {
	n := 1 << dim
	if n > MaxVertices {
		return nil, capError("hypercube", dim, n)
	}
	verts := make([]nd.Point, 0, n)
	for mask := 0; mask < n; mask++ {
		p := nd.Point{Dim: dim}
		for k := 0; k < dim; k++ {
			if mask&(1<<k) != 0 {
				p.E[k] = 1
			} else {
				p.E[k] = -1
			}
		}
		verts = append(verts, p)
	}
	return verts, nil
}

// cross emits the 2N unit axis points of the cross polytope.
func cross(dim int) ([]nd.Point, error) {
	verts := make([]nd.Point, 0, 2*dim)
	for k := 0; k < dim; k++ {
		p := nd.Point{Dim: dim}
		p.E[k] = 1
		verts = append(verts, p)
		p.E[k] = -1
		verts = append(verts, p)
	}
	return verts, nil
}

// simplex places N+1 equidistant vertices: the N axis points plus the
// mirror point that makes all pairwise distances equal.
func simplex(dim int) ([]nd.Point, error) {
	verts := make([]nd.Point, 0, dim+1)
	for k := 0; k < dim; k++ {
		p := nd.Point{Dim: dim}
		p.E[k] = 1
		verts = append(verts, p)
	}
	v := (1 - math.Sqrt(float64(dim+1))) / float64(dim)
	p := nd.Point{Dim: dim}
	for k := 0; k < dim; k++ {
		p.E[k] = v
	}
	verts = append(verts, p)
	return verts, nil
}

// demicube keeps the hypercube vertices with an even number of minus
// signs; alternation halves the count and doubles the symmetry.
func demicube(dim int) ([]nd.Point, error) {
	n := 1 << (dim - 1)
	if n > MaxVertices {
		return nil, capError("demicube", dim, n)
	}
	verts := make([]nd.Point, 0, n)
	for mask := 0; mask < 1<<dim; mask++ {
		if bits.OnesCount(uint(mask))%2 != 0 {
			continue
		}
		p := nd.Point{Dim: dim}
		for k := 0; k < dim; k++ {
			if mask&(1<<k) != 0 {
				p.E[k] = -1
			} else {
				p.E[k] = 1
			}
		}
		verts = append(verts, p)
	}
	return verts, nil
}

// rectified emits the hypercube edge midpoints: one coordinate zero,
// the rest full signs.
func rectified(dim int) ([]nd.Point, error) {
	n := dim << (dim - 1)
	if n > MaxVertices {
		return nil, capError("rectified", dim, n)
	}
	verts := make([]nd.Point, 0, n)
	for zero := 0; zero < dim; zero++ {
		for mask := 0; mask < 1<<(dim-1); mask++ {
			p := nd.Point{Dim: dim}
			bit := 0
			for k := 0; k < dim; k++ {
				if k == zero {
					continue
				}
				if mask&(1<<bit) != 0 {
					p.E[k] = 1
				} else {
					p.E[k] = -1
				}
				bit++
			}
			verts = append(verts, p)
		}
	}
	return verts, nil
}

// truncated cuts each hypercube corner back to sqrt(2)-1 along one
// axis, the classic truncation depth that leaves regular facets in 3D.
func truncated(dim int) ([]nd.Point, error) {
	n := dim << dim
	if n > MaxVertices {
		return nil, capError("truncated", dim, n)
	}
	xi := math.Sqrt2 - 1
	verts := make([]nd.Point, 0, n)
	for short := 0; short < dim; short++ {
		for mask := 0; mask < 1<<dim; mask++ {
			p := nd.Point{Dim: dim}
			for k := 0; k < dim; k++ {
				v := 1.0
				if k == short {
					v = xi
				}
				if mask&(1<<k) != 0 {
					v = -v
				}
				p.E[k] = v
			}
			verts = append(verts, p)
		}
	}
	return verts, nil
}

// omnitruncated emits all signed permutations of (1, 1+s, ..., 1+(N-1)s)
// with s = sqrt(2); that spacing makes the transposition edges and the
// sign-flip edges equally long. The count is N!*2^N, so only low
// dimensions fit under the cap.
func omnitruncated(dim int) ([]nd.Point, error) {
	n := 1 << dim
	for k := 2; k <= dim; k++ {
		n *= k
	}
	if n > MaxVertices {
		return nil, capError("omnitruncated", dim, n)
	}
	base := make([]float64, dim)
	for k := 0; k < dim; k++ {
		base[k] = 1 + math.Sqrt2*float64(k)
	}
	verts := make([]nd.Point, 0, n)
	perm := make([]int, dim)
	for k := range perm {
		perm[k] = k
	}
	var emit func(depth int)
	emit = func(depth int) {
		if depth == dim {
			for mask := 0; mask < 1<<dim; mask++ {
				p := nd.Point{Dim: dim}
				for k := 0; k < dim; k++ {
					v := base[perm[k]]
					if mask&(1<<k) != 0 {
						v = -v
					}
					p.E[k] = v
				}
				verts = append(verts, p)
			}
			return
		}
		for i := depth; i < dim; i++ {
			perm[depth], perm[i] = perm[i], perm[depth]
			emit(depth + 1)
			perm[depth], perm[i] = perm[i], perm[depth]
		}
	}
	emit(0)
	return verts, nil
}
