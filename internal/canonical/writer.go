// Package canonical renders document value trees into byte-identical text
// regardless of machine locale, map insertion order, or repeated invocation,
// and derives content hashes and ETags from that text.
package canonical

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrNilContent is returned when nil content reaches a boundary that
// requires a value.
var ErrNilContent = errors.New("canonical: nil content")

const indentUnit = "  "

// Marshal renders the value tree as canonical JSON text: object keys in
// strict ordinal order at every level, arrays in the order given, two-space
// indentation, LF line endings, no BOM, UTF-8 preserved.
//
// Serializing the same tree twice, or logically equal trees built
// independently, yields byte-identical output.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v any, depth int) error {
	switch value := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(value))
	case string:
		return writeString(buf, value)
	case int:
		buf.WriteString(strconv.FormatInt(int64(value), 10))
	case int8:
		buf.WriteString(strconv.FormatInt(int64(value), 10))
	case int16:
		buf.WriteString(strconv.FormatInt(int64(value), 10))
	case int32:
		buf.WriteString(strconv.FormatInt(int64(value), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(value, 10))
	case uint:
		buf.WriteString(strconv.FormatUint(uint64(value), 10))
	case uint8:
		buf.WriteString(strconv.FormatUint(uint64(value), 10))
	case uint16:
		buf.WriteString(strconv.FormatUint(uint64(value), 10))
	case uint32:
		buf.WriteString(strconv.FormatUint(uint64(value), 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(value, 10))
	case float32:
		return writeFloat(buf, float64(value))
	case float64:
		return writeFloat(buf, value)
	case json.Number:
		buf.WriteString(value.String())
	case []any:
		return writeArray(buf, value, depth)
	case map[string]any:
		return writeObject(buf, value, depth)
	default:
		return fmt.Errorf("canonical: unsupported value type %T", v)
	}
	return nil
}

// writeString emits a JSON string without HTML escaping, preserving Unicode
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("canonical: failed to encode string: %w", err)
	}
	// Encode appends a newline; drop it
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// writeFloat emits the shortest round-trip decimal form, independent of the
// host locale
func writeFloat(buf *bytes.Buffer, f float64) error {
	out, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("canonical: failed to encode number: %w", err)
	}
	buf.Write(out)
	return nil
}

// writeArray preserves element order; arrays are never re-sorted here
func writeArray(buf *bytes.Buffer, values []any, depth int) error {
	if len(values) == 0 {
		buf.WriteString("[]")
		return nil
	}

	buf.WriteString("[\n")
	for i, v := range values {
		writeIndent(buf, depth+1)
		if err := writeValue(buf, v, depth+1); err != nil {
			return err
		}
		if i < len(values)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	writeIndent(buf, depth)
	buf.WriteByte(']')
	return nil
}

// writeObject emits member keys in strict ordinal, case-sensitive order
func writeObject(buf *bytes.Buffer, m map[string]any, depth int) error {
	if len(m) == 0 {
		buf.WriteString("{}")
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteString("{\n")
	for i, k := range keys {
		writeIndent(buf, depth+1)
		if err := writeString(buf, k); err != nil {
			return err
		}
		buf.WriteString(": ")
		if err := writeValue(buf, m[k], depth+1); err != nil {
			return err
		}
		if i < len(keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	writeIndent(buf, depth)
	buf.WriteByte('}')
	return nil
}

func writeIndent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString(indentUnit)
	}
}

// NormalizeNewlines collapses CRLF sequences to LF. Both hashing and
// emission operate on the normalized form.
func NormalizeNewlines(content []byte) []byte {
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
}
