// Package descriptor defines the ahead-of-time-constructible type metadata
// the schema generator consumes. Descriptors are plain data: the generator
// never reaches into runtime reflection, and the same descriptor always
// yields the same schema.
package descriptor

import "strings"

// Kind classifies a type descriptor
type Kind int

const (
	KindPrimitive Kind = iota
	KindEnum
	KindObject
	KindArray
	KindDictionary
	KindEnumerable // recursive enumerable, schematized as an array
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindEnum:
		return "enum"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindDictionary:
		return "dictionary"
	case KindEnumerable:
		return "enumerable"
	default:
		return "unknown"
	}
}

// Primitive classifies a primitive type for table-driven schema mapping
type Primitive int

const (
	PrimitiveNone Primitive = iota
	PrimitiveString
	PrimitiveBool
	PrimitiveInt32
	PrimitiveInt64
	PrimitiveFloat32
	PrimitiveFloat64
	PrimitiveDecimal
	PrimitiveUUID
	PrimitiveDateTime
	PrimitiveDate
	PrimitiveTime
	PrimitiveChar
	PrimitiveBytes
	PrimitiveStream
	PrimitiveURI
)

// Type describes a single type. Property and enum member order is
// declaration order and is semantically significant.
type Type struct {
	// Name is the simple type name (e.g. "User")
	Name string

	// FullName uniquely identifies the type (e.g. "app.models.User").
	// Two types may share a Name but never a FullName.
	FullName string

	// Kind classifies the descriptor
	Kind Kind

	// Primitive selects the mapping table entry for primitive kinds
	Primitive Primitive

	// IsGeneric marks generic types; GenericArgs holds the ordered arguments
	IsGeneric   bool
	GenericArgs []*Type

	// IsNullableValue marks a nullable value type (renders as Nullable«T»)
	IsNullableValue bool

	// Properties in declaration order (object kinds)
	Properties []Property

	// EnumMembers in declaration order (enum kinds)
	EnumMembers []EnumMember

	// Element is the item type for arrays and enumerables, or the value
	// type for dictionaries
	Element *Type
}

// Property describes a declared property of an object type.
type Property struct {
	Name        string
	Type        *Type
	Required    bool
	Nullable    bool
	Constraints []Constraint
}

// EnumMember is a single enum member. The underlying value is carried as a
// decimal string so magnitudes beyond 64 bits stay representable.
type EnumMember struct {
	Name  string
	Value string
}

// Key returns the unique registry key for the type. The key is derived from
// FullName (falling back to Name) plus generic arguments, so structurally
// identical descriptors built independently share a key.
func (t *Type) Key() string {
	if t == nil {
		return ""
	}

	base := t.FullName
	if base == "" {
		base = t.Name
	}

	var b strings.Builder
	b.WriteString(base)
	if t.IsGeneric && len(t.GenericArgs) > 0 {
		b.WriteByte('[')
		for i, arg := range t.GenericArgs {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(arg.Key())
		}
		b.WriteByte(']')
	}
	if t.IsNullableValue {
		b.WriteByte('?')
	}
	return b.String()
}

// IsComplex reports whether the type resolves to an object-like schema
// (used by the virtualization nested-property count).
func (t *Type) IsComplex() bool {
	if t == nil {
		return false
	}
	return t.Kind == KindObject || t.Kind == KindDictionary
}
