package nd

import "math"

// Vec represents a direction (not a position) in N-dimensional space.
// Components beyond Dim stay zero.
type Vec struct {
	Dim int
	E   [MaxDim]Real
}

// Point represents a point in N-dimensional space.
type Point struct {
	Dim int
	E   [MaxDim]Real
}

// NewVec builds a dim-dimensional vector from the leading components of e.
func NewVec(dim int, e ...Real) Vec {
	v := Vec{Dim: dim}
	for i := 0; i < dim && i < len(e); i++ {
		v.E[i] = e[i]
	}
	return v
}

// NewPoint builds a dim-dimensional point from the leading components of e.
func NewPoint(dim int, e ...Real) Point {
	p := Point{Dim: dim}
	for i := 0; i < dim && i < len(e); i++ {
		p.E[i] = e[i]
	}
	return p
}

// Axis returns the canonical unit vector e_i.
func Axis(dim, i int) Vec {
	v := Vec{Dim: dim}
	if i >= 0 && i < dim {
		v.E[i] = 1
	}
	return v
}

func (a Vec) Add(b Vec) Vec {
	r := Vec{Dim: a.Dim}
	for i := 0; i < a.Dim; i++ {
		r.E[i] = a.E[i] + b.E[i]
	}
	return r
}

func (a Vec) Sub(b Vec) Vec {
	r := Vec{Dim: a.Dim}
	for i := 0; i < a.Dim; i++ {
		r.E[i] = a.E[i] - b.E[i]
	}
	return r
}

func (v Vec) Mul(s Real) Vec {
	r := Vec{Dim: v.Dim}
	for i := 0; i < v.Dim; i++ {
		r.E[i] = v.E[i] * s
	}
	return r
}

// Dot returns the dot product between two N-dimensional vectors.
func (a Vec) Dot(b Vec) Real {
	sum := 0.0
	for i := 0; i < a.Dim; i++ {
		sum += a.E[i] * b.E[i]
	}
	return sum
}

// Len returns the Euclidean length of the vector.
func (v Vec) Len() Real { return math.Sqrt(v.Dot(v)) }

// Norm returns a unit-length version of the vector.
func (v Vec) Norm() Vec {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}

// Add lets you translate a Point by a Vec.
func (p Point) Add(v Vec) Point {
	r := Point{Dim: p.Dim}
	for i := 0; i < p.Dim; i++ {
		r.E[i] = p.E[i] + v.E[i]
	}
	return r
}

// Sub returns the direction from q to p.
func (p Point) Sub(q Point) Vec {
	r := Vec{Dim: p.Dim}
	for i := 0; i < p.Dim; i++ {
		r.E[i] = p.E[i] - q.E[i]
	}
	return r
}
