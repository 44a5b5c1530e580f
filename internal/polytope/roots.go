package polytope

import (
	"math"

	"github.com/lukaszgryglicki/ndview/internal/nd"
)

// cell24 is the 24-cell: the D4 root system, all coordinate pairs set
// to independent signs of one.
func cell24(dim int) ([]nd.Point, error) {
	return rootsD(dim)
}

// rootsD emits the D_N roots: ±e_i ± e_j over all axis pairs.
func rootsD(dim int) ([]nd.Point, error) {
	n := 2 * dim * (dim - 1)
	verts := make([]nd.Point, 0, n)
	for i := 0; i < dim-1; i++ {
		for j := i + 1; j < dim; j++ {
			for _, si := range []nd.Real{1, -1} {
				for _, sj := range []nd.Real{1, -1} {
					p := nd.Point{Dim: dim}
					p.E[i] = si
					p.E[j] = sj
					verts = append(verts, p)
				}
			}
		}
	}
	return verts, nil
}

// rootsA emits the A_N roots e_i - e_j, which live on the sum-zero
// hyperplane of R^(N+1); coordinates are taken against an orthonormal
// basis of that hyperplane so the result fills all N dimensions.
func rootsA(dim int) ([]nd.Point, error) {
	// basis[k] = (1,...,1,-(k+1),0,...,0)/sqrt((k+1)(k+2)) with k+1 ones.
	basis := make([][]float64, dim)
	for k := 0; k < dim; k++ {
		b := make([]float64, dim+1)
		norm := math.Sqrt(float64((k + 1) * (k + 2)))
		for i := 0; i <= k; i++ {
			b[i] = 1 / norm
		}
		b[k+1] = -float64(k+1) / norm
		basis[k] = b
	}
	verts := make([]nd.Point, 0, dim*(dim+1))
	for i := 0; i <= dim; i++ {
		for j := 0; j <= dim; j++ {
			if i == j {
				continue
			}
			p := nd.Point{Dim: dim}
			for k := 0; k < dim; k++ {
				p.E[k] = nd.Real(basis[k][i] - basis[k][j])
			}
			verts = append(verts, p)
		}
	}
	return verts, nil
}

// rootsE8 emits the 240 E8 roots: the D8 roots plus the half-integer
// spinor orbit with an even number of minus signs.
func rootsE8(dim int) ([]nd.Point, error) {
	verts, err := rootsD(dim)
	if err != nil {
		return nil, err
	}
	for mask := 0; mask < 1<<8; mask++ {
		neg := 0
		for k := 0; k < 8; k++ {
			if mask&(1<<k) != 0 {
				neg++
			}
		}
		if neg%2 != 0 {
			continue
		}
		p := nd.Point{Dim: dim}
		for k := 0; k < 8; k++ {
			if mask&(1<<k) != 0 {
				p.E[k] = -0.5
			} else {
				p.E[k] = 0.5
			}
		}
		verts = append(verts, p)
	}
	return verts, nil
}
