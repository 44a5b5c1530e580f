package nd

import (
	"math"
	"testing"
)

func TestPerspective3D(t *testing.T) {
	// No higher dimensions: uniform 1/dist scale.
	p := NewPoint(3, 1, 2, 3)
	out := Perspective(p, 4)
	want := [3]Real{0.25, 0.5, 0.75}
	for i := range out {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Fatalf("coord %d = %.15g, want %.15g", i, out[i], want[i])
		}
	}
}

func TestPerspective4DDepth(t *testing.T) {
	// w=2 at distance 4: scale 1/(4-2) = 0.5.
	p := NewPoint(4, 1, -1, 2, 2)
	out := Perspective(p, 4)
	want := [3]Real{0.5, -0.5, 1}
	for i := range out {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Fatalf("coord %d = %.15g, want %.15g", i, out[i], want[i])
		}
	}
}

func TestPerspectiveHigherDepthNormalization(t *testing.T) {
	// Two higher coords of 1 each: h = 2/sqrt(2) = sqrt(2).
	p := NewPoint(5, 1, 0, 0, 1, 1)
	out := Perspective(p, 4)
	want := 1 / (4 - math.Sqrt2)
	if math.Abs(out[0]-want) > 1e-12 {
		t.Fatalf("x = %.15g, want %.15g", out[0], want)
	}
}

func TestHigherDepth(t *testing.T) {
	cases := []struct {
		p    Point
		want Real
	}{
		{NewPoint(3, 1, 2, 3), 0},
		{NewPoint(4, 0, 0, 0, 2), 2},
		{NewPoint(5, 1, 0, 0, 1, 1), math.Sqrt2},
		{NewPoint(6, 0, 0, 0, 1, -2, 4), math.Sqrt(3)},
	}
	for _, c := range cases {
		if got := HigherDepth(c.p); math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("dim %d: depth = %.15g, want %.15g", c.p.Dim, got, c.want)
		}
	}
}

func TestPerspectiveClampsNearPlane(t *testing.T) {
	// Depth equal to the projection distance would divide by zero; the
	// divisor clamps at 0.01 preserving sign.
	p := NewPoint(4, 1, 0, 0, 4)
	out := Perspective(p, 4)
	if math.Abs(out[0]-100) > 1e-9 {
		t.Fatalf("positive clamp: x = %.15g, want 100", out[0])
	}
	q := NewPoint(4, 1, 0, 0, 4.005)
	out = Perspective(q, 4)
	if math.Abs(out[0]+100) > 1e-9 {
		t.Fatalf("negative clamp: x = %.15g, want -100", out[0])
	}
}
