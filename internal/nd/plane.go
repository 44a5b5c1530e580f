package nd

import (
	"fmt"
	"strconv"
)

// Plane identifies a coordinate rotation plane by its two axis indices,
// normalized so that I < J.
type Plane struct {
	I, J int
}

// The first six axes keep their classical letters; higher axes are named
// by index: A6, A7, ... A10.
var axisLetters = [6]string{"X", "Y", "Z", "W", "V", "U"}

// AxisName returns the canonical name of axis i ("X".."U", then "A6"..).
func AxisName(i int) string {
	if i >= 0 && i < len(axisLetters) {
		return axisLetters[i]
	}
	return fmt.Sprintf("A%d", i)
}

func axisByName(s string) (int, bool) {
	if len(s) == 1 {
		for i, l := range axisLetters {
			if s == l {
				return i, true
			}
		}
		return 0, false
	}
	if len(s) > 1 && s[0] == 'A' {
		n, err := strconv.Atoi(s[1:])
		if err == nil && n >= len(axisLetters) && n < MaxDim {
			return n, true
		}
	}
	return 0, false
}

// String returns the plane name, e.g. "XY", "XW", "XA6", "A6A7".
func (p Plane) String() string { return AxisName(p.I) + AxisName(p.J) }

// Valid reports whether the plane lies inside a dim-dimensional space.
func (p Plane) Valid(dim int) bool {
	return p.I >= 0 && p.I < p.J && p.J < dim
}

// PlaneByName parses a plane name like "XW" or "A6A7". Axis order in the
// name does not matter; the returned plane is normalized to I < J.
func PlaneByName(name string) (Plane, error) {
	var parts []string
	cur := ""
	for _, c := range name {
		if c >= 'A' && c <= 'Z' && cur != "" {
			parts = append(parts, cur)
			cur = ""
		}
		cur += string(c)
	}
	if cur != "" {
		parts = append(parts, cur)
	}
	if len(parts) != 2 {
		return Plane{}, fmt.Errorf("plane %q: want two axis names", name)
	}
	i, ok := axisByName(parts[0])
	if !ok {
		return Plane{}, fmt.Errorf("plane %q: unknown axis %q", name, parts[0])
	}
	j, ok := axisByName(parts[1])
	if !ok {
		return Plane{}, fmt.Errorf("plane %q: unknown axis %q", name, parts[1])
	}
	if i == j {
		return Plane{}, fmt.Errorf("plane %q: axes must differ", name)
	}
	if i > j {
		i, j = j, i
	}
	return Plane{I: i, J: j}, nil
}

// Planes lists all dim·(dim-1)/2 rotation planes in ascending
// lexicographic order, the order Compose applies them in.
func Planes(dim int) []Plane {
	ps := make([]Plane, 0, dim*(dim-1)/2)
	for i := 0; i < dim; i++ {
		for j := i + 1; j < dim; j++ {
			ps = append(ps, Plane{I: i, J: j})
		}
	}
	return ps
}
