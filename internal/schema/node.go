// Package schema implements the recursive type-to-schema compiler: the
// SchemaIdRegistry that assigns canonical collision-free identifiers and the
// Generator that lowers type descriptors into schema node trees.
//
// Nodes are treated as immutable once built. Every operation that would
// change a node (nullability wrapping, constraint application,
// virtualization marking) returns a new node, so callers must always use the
// returned value.
package schema

// NodeKind tags the schema node variant
type NodeKind int

const (
	KindPrimitive NodeKind = iota
	KindObject
	KindArray
	KindComposition
	KindEnum
	KindPlaceholder
)

// String returns the string representation of the node kind
func (k NodeKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindComposition:
		return "composition"
	case KindEnum:
		return "enum"
	case KindPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// CompositionMode selects the composition keyword
type CompositionMode string

const (
	OneOf CompositionMode = "oneOf"
	AnyOf CompositionMode = "anyOf"
	AllOf CompositionMode = "allOf"
)

// PlaceholderReason records why recursion was curtailed
type PlaceholderReason string

const (
	ReasonCycle PlaceholderReason = "cycle"
	ReasonDepth PlaceholderReason = "depth"
)

// Property is a named property of an object node. Order is the declaration
// order of the source type and is preserved through generation; the
// canonical serializer applies its own key ordering at render time.
type Property struct {
	Name   string
	Schema *Node
}

// Extension is a single vendor-extension entry. Extensions keep insertion
// order.
type Extension struct {
	Key   string
	Value any
}

// Node is a node in the generated schema tree. Only the fields matching the
// Kind are meaningful.
type Node struct {
	Kind NodeKind

	// Primitive and enum nodes
	Type   string
	Format string

	// Object nodes
	Properties           []Property
	Required             []string
	AdditionalProperties *Node

	// Array nodes
	Items *Node

	// Composition nodes
	Mode    CompositionMode
	Members []*Node

	// Enum nodes
	Values    []any
	ValueType string

	// Placeholder nodes
	Reason PlaceholderReason
	Origin string

	// Nullable marks the node nullable; its rendering depends on the
	// target spec version policy
	Nullable bool

	// Extensions carries virtualization and truncation metadata
	Extensions []Extension

	// Constraint annotations
	Minimum   *float64
	Maximum   *float64
	MinLength *int
	MaxLength *int
	Pattern   string
}

// clone returns a copy of the node with freshly copied slices, so the copy
// can be extended without touching the original.
func (n *Node) clone() *Node {
	out := *n
	if n.Properties != nil {
		out.Properties = make([]Property, len(n.Properties))
		copy(out.Properties, n.Properties)
	}
	if n.Required != nil {
		out.Required = make([]string, len(n.Required))
		copy(out.Required, n.Required)
	}
	if n.Members != nil {
		out.Members = make([]*Node, len(n.Members))
		copy(out.Members, n.Members)
	}
	if n.Values != nil {
		out.Values = make([]any, len(n.Values))
		copy(out.Values, n.Values)
	}
	if n.Extensions != nil {
		out.Extensions = make([]Extension, len(n.Extensions))
		copy(out.Extensions, n.Extensions)
	}
	return &out
}

// withExtension returns a copy of the node with the extension appended
func (n *Node) withExtension(key string, value any) *Node {
	out := n.clone()
	out.Extensions = append(out.Extensions, Extension{Key: key, Value: value})
	return out
}

// ExtensionValue returns the value of the named extension, if present
func (n *Node) ExtensionValue(key string) (any, bool) {
	for _, ext := range n.Extensions {
		if ext.Key == key {
			return ext.Value, true
		}
	}
	return nil, false
}

// Property returns the schema of the named property, if present
func (n *Node) Property(name string) (*Node, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// NullPrimitive returns the primitive node for the JSON null type
func NullPrimitive() *Node {
	return &Node{Kind: KindPrimitive, Type: "null"}
}

// NewPlaceholder returns a stand-in node for curtailed recursion
func NewPlaceholder(reason PlaceholderReason, origin string) *Node {
	return &Node{Kind: KindPlaceholder, Reason: reason, Origin: origin}
}
