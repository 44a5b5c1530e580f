package nd

import "math"

// PlaneAngle couples a rotation plane with an angle in radians.
type PlaneAngle struct {
	Plane Plane
	Angle Real
}

// Rotation builds the elementary rotation by a radians in plane p:
// R[i][i]=cos, R[j][j]=cos, R[i][j]=-sin, R[j][i]=sin, identity elsewhere.
// Non-finite angles rotate by zero; planes outside the space leave the
// identity untouched.
func Rotation(dim int, p Plane, a Real) Mat {
	M := I(dim)
	if !p.Valid(dim) {
		return M
	}
	if !isFinite(a) {
		a = 0
	}
	c, s := math.Cos(a), math.Sin(a)
	M.M[p.I][p.I], M.M[p.I][p.J] = c, -s
	M.M[p.J][p.I], M.M[p.J][p.J] = s, c
	return M
}

// Compose builds the full rotation for an angle set. The set is applied in
// ascending lexicographic plane order regardless of input order, as
// left-to-right matrix factors:
//
//	R = R(0,1) · R(0,2) · ... · R(dim-2,dim-1)
//
// so under R·v the highest plane touches the vector first. Rotations in
// different planes do not commute; this fixed order is what makes equal
// angle sets reproduce equal matrices across sessions. Invalid planes are
// skipped, non-finite angles count as zero.
func Compose(dim int, angles []PlaneAngle) Mat {
	var buf [MaxPlanes]PlaneAngle
	n := 0
	for _, pa := range angles {
		if !pa.Plane.Valid(dim) || n == len(buf) {
			continue
		}
		if !isFinite(pa.Angle) {
			pa.Angle = 0
		}
		buf[n] = pa
		n++
	}
	// Insertion sort; the set is at most MaxPlanes entries.
	for i := 1; i < n; i++ {
		for j := i; j > 0 && planeLess(buf[j].Plane, buf[j-1].Plane); j-- {
			buf[j], buf[j-1] = buf[j-1], buf[j]
		}
	}
	R := I(dim)
	for i := 0; i < n; i++ {
		if buf[i].Angle == 0 {
			continue
		}
		R = R.Mul(Rotation(dim, buf[i].Plane, buf[i].Angle))
	}
	return R
}

func planeLess(a, b Plane) bool {
	if a.I != b.I {
		return a.I < b.I
	}
	return a.J < b.J
}
