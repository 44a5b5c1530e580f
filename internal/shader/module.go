// Package shader assembles GPU raymarch programs from interchangeable
// GLSL source modules. A configuration key selects one object family,
// a dimension and a set of visual features; composing the same key twice
// yields byte-identical source, which is what makes the variant cache
// and reproducible scene snapshots safe.
package shader

import "fmt"

// UniformType is the GLSL-level type of one uniform slot.
type UniformType uint8

const (
	Float UniformType = iota
	Int
	Vec2
	Vec3
)

func (t UniformType) glsl() string {
	switch t {
	case Float:
		return "float"
	case Int:
		return "int"
	case Vec2:
		return "vec2"
	case Vec3:
		return "vec3"
	}
	return "float"
}

// UniformSpec declares one uniform of a composed program. Arity > 1
// declares an array. The composer returns specs in declaration order and
// callers must upload values in exactly that order and type.
type UniformSpec struct {
	Name  string
	Type  UniformType
	Arity int
}

func (u UniformSpec) decl() string {
	if u.Arity > 1 {
		return fmt.Sprintf("uniform %s %s[%d];", u.Type.glsl(), u.Name, u.Arity)
	}
	return fmt.Sprintf("uniform %s %s;", u.Type.glsl(), u.Name)
}

// Floats returns how many float32 (or int32) scalars the slot occupies.
func (u UniformSpec) Floats() int {
	n := u.Arity
	if n < 1 {
		n = 1
	}
	switch u.Type {
	case Vec2:
		return 2 * n
	case Vec3:
		return 3 * n
	default:
		return n
	}
}

// Family is implemented by every object family that can emit its GLSL
// distance function. The emitted body must define
//
//	vec3 de(float p[DIM])
//
// returning (distance, orbit trap, smooth escape count) and may reference
// only its own uniforms, the shared uniform block and the DIM/ITER_CAP
// macros from the header.
type Family interface {
	Name() string
	// DimRange bounds the dimensions this family can render.
	DimRange() (min, max int)
	// Uniforms declares the family uniform block for a given dimension.
	Uniforms(dim int) []UniformSpec
	// AppendDE appends the de() definition to dst and returns it.
	AppendDE(dst []byte) []byte
}

// CompiledVariant is an immutable composed program plus its uniform
// layout in declaration order.
type CompiledVariant struct {
	Key      VariantKey
	Source   string
	Uniforms []UniformSpec
}
