package document

import (
	"errors"
	"fmt"

	"github.com/schemaforge/schemaforge/internal/schema"
)

// Lower converts a single schema node into the generic value tree consumed
// by the canonical writer, without wrapping it in a document.
func Lower(n *schema.Node) (map[string]any, error) {
	return lowerNode(n)
}

// lowerNode converts a schema node into the generic map form. Placeholder
// nodes render as a bare object with an explanatory description so documents
// containing curtailed recursion still serialize cleanly.
func lowerNode(n *schema.Node) (map[string]any, error) {
	if n == nil {
		return nil, errors.New("nil schema node")
	}

	var out map[string]any

	switch n.Kind {
	case schema.KindPrimitive:
		out = map[string]any{"type": n.Type}
		if n.Format != "" {
			out["format"] = n.Format
		}

	case schema.KindObject:
		out = map[string]any{"type": "object"}
		if len(n.Properties) > 0 {
			props := make(map[string]any, len(n.Properties))
			for _, p := range n.Properties {
				lowered, err := lowerNode(p.Schema)
				if err != nil {
					return nil, fmt.Errorf("property %q: %w", p.Name, err)
				}
				props[p.Name] = lowered
			}
			out["properties"] = props
		}
		if len(n.Required) > 0 {
			required := make([]any, len(n.Required))
			for i, name := range n.Required {
				required[i] = name
			}
			out["required"] = required
		}
		if n.AdditionalProperties != nil {
			lowered, err := lowerNode(n.AdditionalProperties)
			if err != nil {
				return nil, fmt.Errorf("additionalProperties: %w", err)
			}
			out["additionalProperties"] = lowered
		}

	case schema.KindArray:
		out = map[string]any{"type": "array"}
		if n.Items != nil {
			items, err := lowerNode(n.Items)
			if err != nil {
				return nil, fmt.Errorf("items: %w", err)
			}
			out["items"] = items
		}

	case schema.KindComposition:
		members := make([]any, len(n.Members))
		for i, m := range n.Members {
			lowered, err := lowerNode(m)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", n.Mode, i, err)
			}
			members[i] = lowered
		}
		out = map[string]any{string(n.Mode): members}

	case schema.KindEnum:
		out = map[string]any{"type": n.Type}
		if n.Format != "" {
			out["format"] = n.Format
		}
		values := make([]any, len(n.Values))
		copy(values, n.Values)
		out["enum"] = values

	case schema.KindPlaceholder:
		out = map[string]any{
			"type":        "object",
			"description": placeholderDescription(n),
		}

	default:
		return nil, fmt.Errorf("unknown node kind %d", n.Kind)
	}

	if n.Nullable {
		out["nullable"] = true
	}
	if n.Minimum != nil {
		out["minimum"] = *n.Minimum
	}
	if n.Maximum != nil {
		out["maximum"] = *n.Maximum
	}
	if n.MinLength != nil {
		out["minLength"] = *n.MinLength
	}
	if n.MaxLength != nil {
		out["maxLength"] = *n.MaxLength
	}
	if n.Pattern != "" {
		out["pattern"] = n.Pattern
	}
	for _, ext := range n.Extensions {
		out[ext.Key] = ext.Value
	}

	return out, nil
}

func placeholderDescription(n *schema.Node) string {
	switch n.Reason {
	case schema.ReasonCycle:
		return fmt.Sprintf("Recursive reference to %s", n.Origin)
	case schema.ReasonDepth:
		return fmt.Sprintf("Nesting depth limit reached at %s", n.Origin)
	default:
		return "Placeholder"
	}
}
