package schema

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemaforge/schemaforge/internal/descriptor"
	"github.com/schemaforge/schemaforge/internal/diag"
)

func enumType(name string, members ...descriptor.EnumMember) *descriptor.Type {
	return &descriptor.Type{
		Name: name, FullName: "app." + name,
		Kind:        descriptor.KindEnum,
		EnumMembers: members,
	}
}

func TestGenerate_EnumLabels(t *testing.T) {
	gen, sink := newTestGenerator(DefaultOptions())

	// Declared out of alphabetical order on purpose
	status := enumType("Status",
		descriptor.EnumMember{Name: "Zebra", Value: "0"},
		descriptor.EnumMember{Name: "Alpha", Value: "1"},
	)

	node, err := gen.Generate(status)
	require.NoError(t, err)
	assert.Equal(t, KindEnum, node.Kind)
	assert.Equal(t, "string", node.Type)
	assert.Equal(t, "string", node.ValueType)

	// Declaration order is preserved, never sorted
	assert.Equal(t, []any{"Zebra", "Alpha"}, node.Values)
	assert.Equal(t, 0, sink.Len())
}

func TestGenerate_EnumLabelTransform(t *testing.T) {
	opts := DefaultOptions()
	opts.EnumLabelTransform = strings.ToLower
	gen, _ := newTestGenerator(opts)

	node, err := gen.Generate(enumType("Status",
		descriptor.EnumMember{Name: "Zebra", Value: "0"},
		descriptor.EnumMember{Name: "Alpha", Value: "1"},
	))
	require.NoError(t, err)

	// Relabeled, not reordered
	assert.Equal(t, []any{"zebra", "alpha"}, node.Values)
}

func TestGenerate_EnumNumericWidth(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		format string
	}{
		{"small values fit int32", []string{"0", "1", "2"}, "int32"},
		{"int32 bounds", []string{"-2147483648", "2147483647"}, "int32"},
		{"beyond int32", []string{"0", "2147483648"}, "int64"},
		{"negative beyond int32", []string{"-2147483649"}, "int64"},
		{"int64 bounds", []string{"9223372036854775807"}, "int64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.EnumMode = EnumNumeric
			gen, sink := newTestGenerator(opts)

			var members []descriptor.EnumMember
			for i, v := range tt.values {
				members = append(members, descriptor.EnumMember{Name: fmt.Sprintf("M%d", i), Value: v})
			}

			node, err := gen.Generate(enumType("E", members...))
			require.NoError(t, err)
			assert.Equal(t, "integer", node.Type)
			assert.Equal(t, tt.format, node.Format)
			assert.Equal(t, tt.format, node.ValueType)
			require.Len(t, node.Values, len(tt.values))
			assert.IsType(t, int64(0), node.Values[0])
			assert.Equal(t, 0, sink.Len())
		})
	}
}

func TestGenerate_EnumOverflowFallback(t *testing.T) {
	opts := DefaultOptions()
	opts.EnumMode = EnumNumeric
	gen, sink := newTestGenerator(opts)

	node, err := gen.Generate(enumType("Big",
		descriptor.EnumMember{Name: "Small", Value: "1"},
		descriptor.EnumMember{Name: "Huge", Value: "9223372036854775808"},
	))
	require.NoError(t, err)

	// The whole enum falls back to digit strings, declaration order kept
	assert.Equal(t, "string", node.Type)
	assert.Equal(t, "string", node.ValueType)
	assert.Equal(t, []any{"1", "9223372036854775808"}, node.Values)

	events := sink.EventsWithCode(diag.CodeEnumOverflowFallback)
	require.Len(t, events, 1)
	assert.Equal(t, diag.Warn, events[0].Severity)
	assert.Contains(t, events[0].Message, "app.Big")
}

func TestGenerate_EnumTruncation(t *testing.T) {
	members := func(n int) []descriptor.EnumMember {
		out := make([]descriptor.EnumMember, n)
		for i := range out {
			out[i] = descriptor.EnumMember{Name: fmt.Sprintf("V%03d", i), Value: fmt.Sprintf("%d", i)}
		}
		return out
	}

	t.Run("at threshold is untouched", func(t *testing.T) {
		opts := DefaultOptions()
		opts.EnumValueLimit = 10
		gen, sink := newTestGenerator(opts)

		node, err := gen.Generate(enumType("Exact", members(10)...))
		require.NoError(t, err)
		assert.Len(t, node.Values, 10)
		assert.Empty(t, node.Extensions)
		assert.Equal(t, 0, sink.Len())
	})

	t.Run("one past threshold truncates", func(t *testing.T) {
		opts := DefaultOptions()
		opts.EnumValueLimit = 10
		gen, sink := newTestGenerator(opts)

		node, err := gen.Generate(enumType("Over", members(11)...))
		require.NoError(t, err)

		// First N in declaration order survive
		require.Len(t, node.Values, 10)
		assert.Equal(t, "V000", node.Values[0])
		assert.Equal(t, "V009", node.Values[9])

		total, ok := node.ExtensionValue("x-enum-total")
		require.True(t, ok)
		assert.Equal(t, 11, total)
		truncated, ok := node.ExtensionValue("x-enum-truncated")
		require.True(t, ok)
		assert.Equal(t, 10, truncated)

		events := sink.EventsWithCode(diag.CodeEnumTruncated)
		require.Len(t, events, 1)
		assert.Equal(t, diag.Info, events[0].Severity)
		assert.Contains(t, events[0].Message, "app.Over")
		assert.Contains(t, events[0].Message, "11")
		assert.Contains(t, events[0].Message, "10")
	})
}

func TestGenerate_NullableEnum(t *testing.T) {
	status := enumType("Status",
		descriptor.EnumMember{Name: "On", Value: "0"},
		descriptor.EnumMember{Name: "Off", Value: "1"},
	)
	nullable := *status
	nullable.IsNullableValue = true

	t.Run("legacy", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Version = SpecVersion30
		gen, _ := newTestGenerator(opts)

		node, err := gen.Generate(&nullable)
		require.NoError(t, err)
		assert.Equal(t, KindEnum, node.Kind)
		assert.True(t, node.Nullable)
	})

	t.Run("current", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Version = SpecVersion31
		gen, _ := newTestGenerator(opts)

		node, err := gen.Generate(&nullable)
		require.NoError(t, err)
		assert.Equal(t, KindComposition, node.Kind)
		assert.Equal(t, AnyOf, node.Mode)
		require.Len(t, node.Members, 2)
		assert.Equal(t, KindEnum, node.Members[0].Kind)
		assert.Equal(t, "null", node.Members[1].Type)
	})
}

func TestGenerate_EnumOrderStableAcrossGenerators(t *testing.T) {
	status := enumType("Status",
		descriptor.EnumMember{Name: "C", Value: "2"},
		descriptor.EnumMember{Name: "A", Value: "0"},
		descriptor.EnumMember{Name: "B", Value: "1"},
	)

	genOne, _ := newTestGenerator(DefaultOptions())
	genTwo, _ := newTestGenerator(DefaultOptions())

	one, err := genOne.Generate(status)
	require.NoError(t, err)
	two, err := genTwo.Generate(status)
	require.NoError(t, err)

	assert.Equal(t, one.Values, two.Values)
	assert.Equal(t, []any{"C", "A", "B"}, one.Values)
}
