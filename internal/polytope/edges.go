package polytope

import (
	"sort"

	"github.com/lukaszgryglicki/ndview/internal/nd"
)

func dist2(a, b nd.Point) nd.Real {
	d := nd.Real(0)
	for k := 0; k < a.Dim; k++ {
		e := a.E[k] - b.E[k]
		d += e * e
	}
	return d
}

// ShortEdges connects every vertex pair whose distance is within 1% of
// the minimum pair distance. For regular and uniform shapes that is
// exactly the edge set. Quadratic in vertex count; use KNNEdges for the
// big orbits.
func ShortEdges(verts []nd.Point) [][2]int {
	minD2 := nd.Real(0)
	for i := 0; i < len(verts)-1; i++ {
		for j := i + 1; j < len(verts); j++ {
			d2 := dist2(verts[i], verts[j])
			if d2 < 1e-18 {
				continue
			}
			if minD2 == 0 || d2 < minD2 {
				minD2 = d2
			}
		}
	}
	if minD2 == 0 {
		return nil
	}
	limit := minD2 * 1.0201 // (1.01)^2 on the distance
	var edges [][2]int
	for i := 0; i < len(verts)-1; i++ {
		for j := i + 1; j < len(verts); j++ {
			d2 := dist2(verts[i], verts[j])
			if d2 >= 1e-18 && d2 <= limit {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return edges
}

// KNNEdges connects every vertex to its k nearest neighbors. The result
// is not the true edge set, but it stays readable where ShortEdges
// would drown in pairs, and it degrades gracefully on irregular orbits.
func KNNEdges(verts []nd.Point, k int) [][2]int {
	if k < 1 || len(verts) < 2 {
		return nil
	}
	if k > len(verts)-1 {
		k = len(verts) - 1
	}
	type cand struct {
		idx int
		d2  nd.Real
	}
	seen := make(map[[2]int]bool)
	var edges [][2]int
	best := make([]cand, 0, k)
	for i := range verts {
		best = best[:0]
		for j := range verts {
			if i == j {
				continue
			}
			d2 := dist2(verts[i], verts[j])
			if d2 < 1e-18 {
				continue
			}
			if len(best) < k {
				best = append(best, cand{j, d2})
				if len(best) == k {
					sort.Slice(best, func(a, b int) bool { return best[a].d2 < best[b].d2 })
				}
				continue
			}
			if d2 >= best[k-1].d2 {
				continue
			}
			pos := sort.Search(k, func(a int) bool { return best[a].d2 > d2 })
			copy(best[pos+1:], best[pos:k-1])
			best[pos] = cand{j, d2}
		}
		for _, c := range best {
			e := [2]int{i, c.idx}
			if e[0] > e[1] {
				e[0], e[1] = e[1], e[0]
			}
			if !seen[e] {
				seen[e] = true
				edges = append(edges, e)
			}
		}
	}
	sort.Slice(edges, func(a, b int) bool {
		if edges[a][0] != edges[b][0] {
			return edges[a][0] < edges[b][0]
		}
		return edges[a][1] < edges[b][1]
	})
	return edges
}
