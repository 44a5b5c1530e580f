package nd

// Mat is a square Dim×Dim matrix (row-major). Entries beyond Dim stay zero.
type Mat struct {
	Dim int
	M   [MaxDim][MaxDim]Real
}

// I returns the dim-dimensional identity matrix.
func I(dim int) Mat {
	R := Mat{Dim: dim}
	for i := 0; i < dim; i++ {
		R.M[i][i] = 1
	}
	return R
}

func (A Mat) Mul(B Mat) Mat {
	n := A.Dim
	R := Mat{Dim: n}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			sum := 0.0
			for k := 0; k < n; k++ {
				sum += A.M[r][k] * B.M[k][c]
			}
			R.M[r][c] = sum
		}
	}
	return R
}

func (A Mat) Transpose() Mat {
	n := A.Dim
	R := Mat{Dim: n}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			R.M[r][c] = A.M[c][r]
		}
	}
	return R
}

func (A Mat) MulVec(v Vec) Vec {
	n := A.Dim
	r := Vec{Dim: n}
	for i := 0; i < n; i++ {
		sum := 0.0
		for k := 0; k < n; k++ {
			sum += A.M[i][k] * v.E[k]
		}
		r.E[i] = sum
	}
	return r
}

func (A Mat) MulPoint(p Point) Point {
	n := A.Dim
	r := Point{Dim: n}
	for i := 0; i < n; i++ {
		sum := 0.0
		for k := 0; k < n; k++ {
			sum += A.M[i][k] * p.E[k]
		}
		r.E[i] = sum
	}
	return r
}
