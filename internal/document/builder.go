// Package document assembles generated schemas into a complete document and
// lowers it to the generic value tree consumed by the canonical writer.
package document

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/schemaforge/schemaforge/internal/canonical"
	"github.com/schemaforge/schemaforge/internal/schema"
)

// ErrNilDocument is returned when a nil document reaches a serialization
// boundary.
var ErrNilDocument = errors.New("document: nil document")

// Info carries the document header fields.
type Info struct {
	Title       string
	Version     string
	Description string
}

// Document is an assembled schema catalog ready for serialization.
type Document struct {
	Info        Info
	SpecVersion schema.SpecVersion

	schemas map[string]*schema.Node
	order   []string
}

// Builder accumulates generated schemas under their registry-assigned ids.
type Builder struct {
	info        Info
	specVersion schema.SpecVersion
	schemas     map[string]*schema.Node
	order       []string
}

// NewBuilder creates a builder targeting the given spec version.
func NewBuilder(info Info, version schema.SpecVersion) *Builder {
	return &Builder{
		info:        info,
		specVersion: version,
		schemas:     make(map[string]*schema.Node),
	}
}

// Add records a schema under its canonical id. Re-adding an id replaces the
// previous schema without changing its position.
func (b *Builder) Add(id string, node *schema.Node) error {
	if id == "" {
		return errors.New("document: empty schema id")
	}
	if node == nil {
		return fmt.Errorf("document: nil schema for id %q", id)
	}
	if _, exists := b.schemas[id]; !exists {
		b.order = append(b.order, id)
	}
	b.schemas[id] = node
	return nil
}

// Len returns the number of schemas added so far.
func (b *Builder) Len() int {
	return len(b.schemas)
}

// Build produces the assembled document.
func (b *Builder) Build() *Document {
	schemas := make(map[string]*schema.Node, len(b.schemas))
	for id, node := range b.schemas {
		schemas[id] = node
	}
	order := make([]string, len(b.order))
	copy(order, b.order)

	return &Document{
		Info:        b.info,
		SpecVersion: b.specVersion,
		schemas:     schemas,
		order:       order,
	}
}

// Schema returns the schema registered under the given id.
func (d *Document) Schema(id string) (*schema.Node, bool) {
	node, ok := d.schemas[id]
	return node, ok
}

// IDs returns the schema ids in registration order.
func (d *Document) IDs() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Value lowers the document to the generic tree the canonical writer
// consumes. Map key order is irrelevant here; the writer applies canonical
// ordering at render time.
func (d *Document) Value() (map[string]any, error) {
	if d == nil {
		return nil, ErrNilDocument
	}

	info := map[string]any{
		"title":   d.Info.Title,
		"version": d.Info.Version,
	}
	if d.Info.Description != "" {
		info["description"] = d.Info.Description
	}

	schemas := make(map[string]any, len(d.schemas))
	for id, node := range d.schemas {
		lowered, err := lowerNode(node)
		if err != nil {
			return nil, fmt.Errorf("document: schema %q: %w", id, err)
		}
		schemas[id] = lowered
	}

	return map[string]any{
		"openapi": d.SpecVersion.String(),
		"info":    info,
		"components": map[string]any{
			"schemas": schemas,
		},
	}, nil
}

// Canonical serializes the document canonically: byte-identical output for
// logically equal documents.
func (d *Document) Canonical() ([]byte, error) {
	value, err := d.Value()
	if err != nil {
		return nil, err
	}
	return canonical.Marshal(value)
}

// Hash returns the SHA-256 content hash of the canonical serialization.
func (d *Document) Hash() (string, error) {
	out, err := d.Canonical()
	if err != nil {
		return "", err
	}
	return canonical.Hash(out)
}

// ETag returns the weak HTTP validator derived from the canonical hash.
func (d *Document) ETag() (string, error) {
	hash, err := d.Hash()
	if err != nil {
		return "", err
	}
	return canonical.WeakETag(hash)
}

// YAML renders the document as YAML for human review. Keys follow the same
// canonical ordering as the JSON form so diffs stay stable, but the YAML
// output is not part of the hashed canonical surface.
func (d *Document) YAML() ([]byte, error) {
	value, err := d.Value()
	if err != nil {
		return nil, err
	}
	root, err := yamlNode(value)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(root)
}

// yamlNode converts the value tree into a yaml.Node with sorted map keys,
// since yaml.Marshal on a plain map would emit keys in random order.
func yamlNode(v any) (*yaml.Node, error) {
	switch value := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range keys {
			child, err := yamlNode(value[k])
			if err != nil {
				return nil, err
			}
			keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: k}
			node.Content = append(node.Content, keyNode, child)
		}
		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range value {
			child, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, fmt.Errorf("document: yaml encode: %w", err)
		}
		return node, nil
	}
}
