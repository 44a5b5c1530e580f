package polytope

import "sort"

// Triangles lists the 3-cycles of the edge graph as index triples with
// a < b < c, each cycle reported once (edges are assumed unique).
// Simplex-faced shapes get their triangular faces back; hypercubes
// correctly yield none.
func Triangles(vertCount int, edges [][2]int) [][3]int {
	adj := make([]map[int]bool, vertCount)
	for i := range adj {
		adj[i] = make(map[int]bool)
	}
	for _, e := range edges {
		if e[0] == e[1] || e[0] < 0 || e[1] < 0 || e[0] >= vertCount || e[1] >= vertCount {
			continue
		}
		adj[e[0]][e[1]] = true
		adj[e[1]][e[0]] = true
	}
	var tris [][3]int
	for _, e := range edges {
		a, b := e[0], e[1]
		if a > b {
			a, b = b, a
		}
		for c := range adj[a] {
			if c > b && adj[b][c] {
				tris = append(tris, [3]int{a, b, c})
			}
		}
	}
	sort.Slice(tris, func(i, j int) bool {
		if tris[i][0] != tris[j][0] {
			return tris[i][0] < tris[j][0]
		}
		if tris[i][1] != tris[j][1] {
			return tris[i][1] < tris[j][1]
		}
		return tris[i][2] < tris[j][2]
	})
	return tris
}
