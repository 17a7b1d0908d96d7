package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecVersionString(t *testing.T) {
	assert.Equal(t, "3.0", SpecVersion30.String())
	assert.Equal(t, "3.1", SpecVersion31.String())
	assert.Equal(t, "unknown", SpecVersion(9).String())
}

func TestApplyNullability_Legacy(t *testing.T) {
	original := &Node{Kind: KindPrimitive, Type: "integer"}

	out := ApplyNullability(original, SpecVersion30)
	require.NotNil(t, out)
	assert.True(t, out.Nullable)
	assert.Equal(t, "integer", out.Type)

	// No structural change, and the original is untouched
	assert.Equal(t, KindPrimitive, out.Kind)
	assert.False(t, original.Nullable)
}

func TestApplyNullability_Current(t *testing.T) {
	original := &Node{Kind: KindPrimitive, Type: "integer"}

	out := ApplyNullability(original, SpecVersion31)
	require.NotNil(t, out)
	assert.Equal(t, KindComposition, out.Kind)
	assert.Equal(t, AnyOf, out.Mode)
	require.Len(t, out.Members, 2)
	assert.Same(t, original, out.Members[0])
	assert.Equal(t, "null", out.Members[1].Type)
}

func TestApplyNullability_OneOfAppendsNull(t *testing.T) {
	a := &Node{Kind: KindPrimitive, Type: "string"}
	b := &Node{Kind: KindPrimitive, Type: "integer"}
	original := &Node{Kind: KindComposition, Mode: OneOf, Members: []*Node{a, b}}

	out := ApplyNullability(original, SpecVersion31)
	require.NotNil(t, out)

	// The oneOf keeps its mode and gains the null member
	assert.Equal(t, OneOf, out.Mode)
	require.Len(t, out.Members, 3)
	assert.Same(t, a, out.Members[0])
	assert.Same(t, b, out.Members[1])
	assert.Equal(t, "null", out.Members[2].Type)

	// The original member list is untouched
	assert.Len(t, original.Members, 2)
}

func TestApplyNullability_AllOfWrapsInAnyOf(t *testing.T) {
	a := &Node{Kind: KindPrimitive, Type: "string"}
	original := &Node{Kind: KindComposition, Mode: AllOf, Members: []*Node{a}}

	out := ApplyNullability(original, SpecVersion31)
	require.NotNil(t, out)

	// The allOf is never mutated: a fresh anyOf wraps it whole
	assert.Equal(t, AnyOf, out.Mode)
	require.Len(t, out.Members, 2)
	assert.Same(t, original, out.Members[0])
	assert.Equal(t, "null", out.Members[1].Type)

	assert.Equal(t, AllOf, original.Mode)
	assert.Len(t, original.Members, 1)
}

func TestApplyNullability_AnyOfWrapsAgain(t *testing.T) {
	original := &Node{Kind: KindComposition, Mode: AnyOf, Members: []*Node{NullPrimitive()}}

	out := ApplyNullability(original, SpecVersion31)
	assert.Equal(t, AnyOf, out.Mode)
	require.Len(t, out.Members, 2)
	assert.Same(t, original, out.Members[0])
}

func TestApplyNullability_Nil(t *testing.T) {
	assert.Nil(t, ApplyNullability(nil, SpecVersion31))
}
