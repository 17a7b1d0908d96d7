package schema

// SpecVersion selects the nullability policy of the target document format
type SpecVersion int

const (
	// SpecVersion30 renders nullability as a nullable flag on the node
	SpecVersion30 SpecVersion = iota

	// SpecVersion31 renders nullability as a union with the null type
	SpecVersion31
)

// String returns the string representation of the spec version
func (v SpecVersion) String() string {
	switch v {
	case SpecVersion30:
		return "3.0"
	case SpecVersion31:
		return "3.1"
	default:
		return "unknown"
	}
}

// ApplyNullability returns a node carrying the nullable semantics of the
// target version. The input node is never mutated; callers must use the
// returned value.
//
// Under 3.0 the node is flagged nullable. Under 3.1 the node is wrapped in
// an anyOf union with the null primitive, with two exceptions: a oneOf
// composition gets the null primitive appended to its own member list (the
// union keyword is already there), while an allOf composition must keep its
// meaning intact and is wrapped whole inside a new anyOf.
func ApplyNullability(n *Node, version SpecVersion) *Node {
	if n == nil {
		return nil
	}

	if version == SpecVersion30 {
		out := n.clone()
		out.Nullable = true
		return out
	}

	if n.Kind == KindComposition && n.Mode == OneOf {
		out := n.clone()
		out.Members = append(out.Members, NullPrimitive())
		return out
	}

	return &Node{
		Kind:    KindComposition,
		Mode:    AnyOf,
		Members: []*Node{n, NullPrimitive()},
	}
}
