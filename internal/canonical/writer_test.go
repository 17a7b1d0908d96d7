package canonical

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_SortsObjectKeys(t *testing.T) {
	out, err := Marshal(map[string]any{
		"b": 2,
		"a": 1,
	})
	require.NoError(t, err)

	expected := "{\n  \"a\": 1,\n  \"b\": 2\n}"
	assert.Equal(t, expected, string(out))
}

func TestMarshal_OrdinalCaseSensitiveOrder(t *testing.T) {
	// Byte-wise ordering: uppercase sorts before lowercase, no locale
	// collation rules apply
	out, err := Marshal(map[string]any{
		"apple":  1,
		"Banana": 2,
		"cherry": 3,
	})
	require.NoError(t, err)

	first := strings.Index(string(out), "Banana")
	second := strings.Index(string(out), "apple")
	third := strings.Index(string(out), "cherry")
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestMarshal_SortsNestedKeys(t *testing.T) {
	out, err := Marshal(map[string]any{
		"outer": map[string]any{
			"z": true,
			"a": false,
		},
	})
	require.NoError(t, err)

	expected := "{\n  \"outer\": {\n    \"a\": false,\n    \"z\": true\n  }\n}"
	assert.Equal(t, expected, string(out))
}

func TestMarshal_PreservesArrayOrder(t *testing.T) {
	out, err := Marshal(map[string]any{
		"enum": []any{"Zebra", "Alpha"},
	})
	require.NoError(t, err)

	// Array elements keep their upstream order even when unsorted
	expected := "{\n  \"enum\": [\n    \"Zebra\",\n    \"Alpha\"\n  ]\n}"
	assert.Equal(t, expected, string(out))
}

func TestMarshal_EmptyContainers(t *testing.T) {
	out, err := Marshal(map[string]any{
		"obj": map[string]any{},
		"arr": []any{},
	})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"arr\": [],\n  \"obj\": {}\n}", string(out))
}

func TestMarshal_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"null", nil, "null"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"string", "hello", `"hello"`},
		{"int", 42, "42"},
		{"negative int64", int64(-9223372036854775808), "-9223372036854775808"},
		{"uint64", uint64(18446744073709551615), "18446744073709551615"},
		{"float", 1.5, "1.5"},
		{"json number", json.Number("9223372036854775808"), "9223372036854775808"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Marshal(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	out, err := Marshal("a < b && c > d")
	require.NoError(t, err)
	assert.Equal(t, `"a < b && c > d"`, string(out))
}

func TestMarshal_PreservesUnicode(t *testing.T) {
	out, err := Marshal(map[string]any{
		"name": "Response«List«string»,int»",
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), "Response«List«string»,int»")
	assert.NotContains(t, string(out), `\u`)
}

func TestMarshal_UnsupportedType(t *testing.T) {
	_, err := Marshal(make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported value type")
}

func TestMarshal_Deterministic(t *testing.T) {
	// Map iteration order is randomized per run; canonical output must not be
	tree := map[string]any{
		"title":   "catalog",
		"version": "1.0.0",
		"components": map[string]any{
			"User":            map[string]any{"type": "object"},
			"User_schemaDup1": map[string]any{"type": "object"},
			"Post":            map[string]any{"type": "object"},
		},
		"tags": []any{"b", "a", "c"},
	}

	first, err := Marshal(tree)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		again, err := Marshal(tree)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestMarshal_EquivalentTreesMatch(t *testing.T) {
	build := func(order []string) map[string]any {
		m := make(map[string]any)
		for i, k := range order {
			m[k] = i % 2
		}
		return m
	}

	one, err := Marshal(build([]string{"a", "b", "c", "d"}))
	require.NoError(t, err)
	two, err := Marshal(build([]string{"d", "c", "b", "a"}))
	require.NoError(t, err)
	assert.Equal(t, one, two)
}

func TestMarshal_LocaleInvariant(t *testing.T) {
	// Numeric formatting must not pick up locale decimal separators
	tree := map[string]any{
		"ratio":   0.5,
		"big":     1234567.89,
		"count":   int64(1000000),
		"labels":  []any{"é", "ß", "日本語"},
		"minimum": -273.15,
	}

	baseline, err := Marshal(tree)
	require.NoError(t, err)

	for _, locale := range []string{"C", "de_DE.UTF-8", "fr_FR.UTF-8"} {
		t.Run(locale, func(t *testing.T) {
			t.Setenv("LC_ALL", locale)
			t.Setenv("LANG", locale)

			out, err := Marshal(tree)
			require.NoError(t, err)
			assert.Equal(t, baseline, out)
			assert.Contains(t, string(out), "-273.15")
			assert.NotContains(t, string(out), "273,15")
		})
	}
}

func TestMarshal_LFOnly(t *testing.T) {
	out, err := Marshal(map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "\r")
}

func TestNormalizeNewlines(t *testing.T) {
	assert.Equal(t, []byte("a\nb\nc"), NormalizeNewlines([]byte("a\r\nb\nc")))
	assert.Equal(t, []byte("a\nb"), NormalizeNewlines([]byte("a\nb")))
	assert.Equal(t, []byte{}, NormalizeNewlines([]byte{}))
}
