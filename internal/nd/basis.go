package nd

// SliceBasis spans the 3-dimensional viewport slice inside N-space.
// The point visible at ray-space coordinates (x,y,z) is
//
//	Origin + x·X + y·Y + z·Z
//
// which is the entire N-D-to-3-D contract: every fractal and polytope
// transform consumes it identically. X/Y/Z start as the canonical
// e0,e1,e2 and stay unit length under rotation.
type SliceBasis struct {
	Origin  Point
	X, Y, Z Vec
}

// Canonical returns the unrotated basis: e0,e1,e2 at the zero origin.
// For dim 2 the Z leg is the zero vector and the slice degenerates to a
// plane extruded along viewport Z.
func Canonical(dim int) SliceBasis {
	return SliceBasis{
		Origin: Point{Dim: dim},
		X:      Axis(dim, 0),
		Y:      Axis(dim, 1),
		Z:      Axis(dim, 2),
	}
}

// Slice rotates the canonical basis and the given origin into place.
// Basis vectors keep unit length because R is orthogonal.
func Slice(R Mat, origin Point) SliceBasis {
	dim := R.Dim
	return SliceBasis{
		Origin: R.MulPoint(origin),
		X:      R.MulVec(Axis(dim, 0)),
		Y:      R.MulVec(Axis(dim, 1)),
		Z:      R.MulVec(Axis(dim, 2)),
	}
}

// PointAt maps ray-space coordinates to the N-D point on the slice.
func (b SliceBasis) PointAt(x, y, z Real) Point {
	return b.Origin.Add(b.X.Mul(x)).Add(b.Y.Mul(y)).Add(b.Z.Mul(z))
}

// Offset returns a copy whose origin is shifted by the slice parameters:
// off[k] is added to coordinate k for k in [3,dim). The first three
// coordinates belong to the viewport and are never offset.
func (b SliceBasis) Offset(off [MaxDim]Real) SliceBasis {
	r := b
	for k := 3; k < r.Origin.Dim; k++ {
		r.Origin.E[k] += off[k]
	}
	return r
}
