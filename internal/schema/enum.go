package schema

import (
	"fmt"
	"math"
	"strconv"

	"github.com/schemaforge/schemaforge/internal/descriptor"
	"github.com/schemaforge/schemaforge/internal/diag"
)

// EnumRepresentation selects how enum values are emitted
type EnumRepresentation int

const (
	// EnumLabels emits member names as strings
	EnumLabels EnumRepresentation = iota

	// EnumNumeric emits underlying values in the smallest integer width
	// that fits all members
	EnumNumeric
)

// enumNode lowers an enum type. Declaration order is always preserved. In
// numeric mode, any member whose magnitude exceeds the signed 64-bit range
// drops the whole enum to a string-of-digits representation.
func (g *Generator) enumNode(t *descriptor.Type, ctx *genContext) *Node {
	opts := g.opts
	node := &Node{Kind: KindEnum}

	if opts.EnumMode == EnumNumeric {
		parsed := make([]int64, 0, len(t.EnumMembers))
		overflow := false
		for _, m := range t.EnumMembers {
			v, err := strconv.ParseInt(m.Value, 10, 64)
			if err != nil {
				overflow = true
				break
			}
			parsed = append(parsed, v)
		}

		if overflow {
			g.emit(ctx, diag.NewEvent(diag.CodeEnumOverflowFallback, diag.Warn,
				fmt.Sprintf("enum %s has values outside the signed 64-bit range, emitting digit strings", typeDisplayName(t)),
				diag.String("type", typeDisplayName(t)),
			))
			node.Type = "string"
			node.ValueType = "string"
			for _, m := range t.EnumMembers {
				node.Values = append(node.Values, m.Value)
			}
		} else {
			node.Type = "integer"
			node.Format = integerWidth(parsed)
			node.ValueType = node.Format
			for _, v := range parsed {
				node.Values = append(node.Values, v)
			}
		}
	} else {
		node.Type = "string"
		node.ValueType = "string"
		for _, m := range t.EnumMembers {
			label := m.Name
			if opts.EnumLabelTransform != nil {
				label = opts.EnumLabelTransform(label)
			}
			node.Values = append(node.Values, label)
		}
	}

	return g.truncateEnum(t, node, ctx)
}

// truncateEnum keeps the first N values when the member count strictly
// exceeds the configured limit, recording total and truncated counts.
func (g *Generator) truncateEnum(t *descriptor.Type, node *Node, ctx *genContext) *Node {
	limit := g.opts.EnumValueLimit
	total := len(node.Values)
	if limit <= 0 || total <= limit {
		return node
	}

	out := node.clone()
	out.Values = out.Values[:limit]
	out = out.withExtension("x-enum-total", total)
	out = out.withExtension("x-enum-truncated", limit)

	g.emit(ctx, diag.NewEvent(diag.CodeEnumTruncated, diag.Info,
		fmt.Sprintf("enum %s truncated from %d to %d values", typeDisplayName(t), total, limit),
		diag.String("type", typeDisplayName(t)),
		diag.Int("total", total),
		diag.Int("truncated", limit),
	))
	return out
}

// integerWidth returns the smallest integer format representing all values
func integerWidth(values []int64) string {
	for _, v := range values {
		if v < math.MinInt32 || v > math.MaxInt32 {
			return "int64"
		}
	}
	return "int32"
}
