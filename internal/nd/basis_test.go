package nd

import (
	"math"
	"testing"
)

func TestCanonicalBasisIdempotence(t *testing.T) {
	for dim := MinDim; dim <= MaxDim; dim++ {
		b := Slice(Compose(dim, nil), Point{Dim: dim})
		want := Canonical(dim)
		if b.X != want.X || b.Y != want.Y || b.Z != want.Z || b.Origin != want.Origin {
			t.Fatalf("dim %d: zero rotation moved the canonical basis", dim)
		}
	}
}

func TestSliceBasisUnitLength(t *testing.T) {
	for dim := 3; dim <= MaxDim; dim++ {
		R := Compose(dim, fullAngleSet(dim))
		b := Slice(R, Point{Dim: dim})
		for i, v := range []Vec{b.X, b.Y, b.Z} {
			if math.Abs(v.Len()-1) > 1e-12 {
				t.Fatalf("dim %d: basis leg %d has length %.15g", dim, i, v.Len())
			}
		}
	}
}

func TestSliceBasisXW45(t *testing.T) {
	// A 45° XW rotation tilts basisX into the fourth axis while leaving
	// Y and Z alone.
	R := Compose(4, []PlaneAngle{{Plane{0, 3}, math.Pi / 4}})
	b := Slice(R, Point{Dim: 4})
	c := math.Cos(math.Pi / 4)
	if math.Abs(b.X.E[0]-c) > 1e-12 || math.Abs(b.X.E[3]-c) > 1e-12 ||
		math.Abs(b.X.E[1]) > 1e-12 || math.Abs(b.X.E[2]) > 1e-12 {
		t.Fatalf("basisX = %+v, want (cos45,0,0,sin45)", b.X)
	}
	if b.Y != Axis(4, 1) || b.Z != Axis(4, 2) {
		t.Fatalf("Y/Z legs moved: %+v %+v", b.Y, b.Z)
	}
}

func TestPointAt(t *testing.T) {
	b := Canonical(5)
	p := b.PointAt(2, -3, 0.5)
	want := NewPoint(5, 2, -3, 0.5, 0, 0)
	if p != want {
		t.Fatalf("PointAt = %+v, want %+v", p, want)
	}
}

func TestSliceOffsets(t *testing.T) {
	b := Canonical(6)
	var off [MaxDim]Real
	off[0], off[1], off[2] = 9, 9, 9 // viewport coords must be ignored
	off[3], off[4], off[5] = 0.25, -0.5, 1.5
	s := b.Offset(off)
	want := NewPoint(6, 0, 0, 0, 0.25, -0.5, 1.5)
	if s.Origin != want {
		t.Fatalf("offset origin = %+v, want %+v", s.Origin, want)
	}
	// The mapped point inherits the slice parameters unchanged.
	p := s.PointAt(1, 1, 1)
	for k := 3; k < 6; k++ {
		if math.Abs(p.E[k]-want.E[k]) > 1e-15 {
			t.Fatalf("coord %d = %.15g, want %.15g", k, p.E[k], want.E[k])
		}
	}
}

func TestCanonicalDim2HasNoZ(t *testing.T) {
	b := Canonical(2)
	if b.Z.Len() != 0 {
		t.Fatalf("dim 2 Z leg should be zero, got %+v", b.Z)
	}
	p := b.PointAt(3, 4, 100)
	if p != NewPoint(2, 3, 4) {
		t.Fatalf("dim 2 PointAt leaked z: %+v", p)
	}
}
