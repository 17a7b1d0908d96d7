package schema

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/schemaforge/schemaforge/internal/descriptor"
	"github.com/schemaforge/schemaforge/internal/diag"
)

// Options configures generation behavior. Options are read fresh on every
// Generate call, so changing them between calls takes effect immediately
// without any invalidation step.
type Options struct {
	// MaxDepth bounds schema nesting; deeper branches become placeholders
	MaxDepth int

	// EnumValueLimit truncates enum value lists strictly longer than this
	EnumValueLimit int

	// PropertyLimit marks objects with strictly more own properties for
	// virtualization
	PropertyLimit int

	// NestedPropertyLimit marks objects with strictly more object-typed
	// properties for virtualization
	NestedPropertyLimit int

	// Version selects the nullability policy
	Version SpecVersion

	// EnumMode selects label-string or underlying-numeric enum values
	EnumMode EnumRepresentation

	// EnumLabelTransform may relabel string-mode enum values. It must never
	// reorder them.
	EnumLabelTransform func(string) string
}

// DefaultOptions returns the default generation options
func DefaultOptions() Options {
	return Options{
		MaxDepth:            8,
		EnumValueLimit:      100,
		PropertyLimit:       50,
		NestedPropertyLimit: 20,
		Version:             SpecVersion30,
		EnumMode:            EnumLabels,
	}
}

// Generator compiles type descriptors into schema node trees. A generator
// may be shared across goroutines: the registry serializes id assignment and
// each Generate call owns an independent context.
type Generator struct {
	registry *Registry
	sink     diag.Sink
	opts     Options
}

// NewGenerator creates a generator using the given registry and sink
func NewGenerator(registry *Registry, sink diag.Sink, opts Options) *Generator {
	if sink == nil {
		sink = diag.Discard
	}
	return &Generator{registry: registry, sink: sink, opts: opts}
}

// Registry returns the generator's id registry
func (g *Generator) Registry() *Registry {
	return g.registry
}

// Options returns the current generation options
func (g *Generator) Options() Options {
	return g.opts
}

// SetOptions replaces the generation options; the next Generate call sees
// the new values.
func (g *Generator) SetOptions(opts Options) {
	g.opts = opts
}

// genContext is the per-call generation state. It is never shared between
// top-level calls.
type genContext struct {
	ancestry    []string
	depth       int
	correlation string
	virtualized map[string]bool
}

func (c *genContext) onPath(key string) bool {
	for _, k := range c.ancestry {
		if k == key {
			return true
		}
	}
	return false
}

// emit forwards an event stamped with the call's correlation id
func (g *Generator) emit(ctx *genContext, event diag.Event) {
	event.Correlation = ctx.correlation
	g.sink.Emit(event)
}

// Generate compiles the type into a schema node tree. Policy boundaries
// (cycles, depth, size thresholds, enum overflow) degrade to placeholders or
// fallback representations plus a diagnostic; the returned tree is always
// complete. Only a nil type fails.
func (g *Generator) Generate(t *descriptor.Type) (*Node, error) {
	if t == nil {
		return nil, ErrNilType
	}

	ctx := &genContext{
		ancestry:    []string{t.Key()},
		correlation: uuid.NewString(),
		virtualized: make(map[string]bool),
	}

	if t.Kind == descriptor.KindObject || t.Kind == descriptor.KindEnum {
		if _, err := g.registry.assign(t, ctx.correlation); err != nil {
			return nil, err
		}
	}

	return g.expand(t, ctx), nil
}

// expand lowers one type into a node. Depth has already been accounted for
// by the caller.
func (g *Generator) expand(t *descriptor.Type, ctx *genContext) *Node {
	if ctx.depth > g.opts.MaxDepth {
		g.emit(ctx, diag.NewEvent(diag.CodeDepthExceeded, diag.Warn,
			fmt.Sprintf("schema for %s truncated at depth %d", typeDisplayName(t), g.opts.MaxDepth),
			diag.String("type", typeDisplayName(t)),
			diag.Int("max_depth", g.opts.MaxDepth),
		))
		return NewPlaceholder(ReasonDepth, t.Name)
	}

	var node *Node
	switch t.Kind {
	case descriptor.KindPrimitive:
		node = primitiveNode(t.Primitive)
	case descriptor.KindEnum:
		node = g.enumNode(t, ctx)
	case descriptor.KindArray, descriptor.KindEnumerable:
		node = &Node{Kind: KindArray, Items: g.memberNode(t.Element, ctx)}
	case descriptor.KindDictionary:
		node = &Node{Kind: KindObject, AdditionalProperties: g.memberNode(t.Element, ctx)}
	case descriptor.KindObject:
		node = g.objectNode(t, ctx)
	default:
		node = &Node{Kind: KindObject}
	}

	if t.IsNullableValue {
		node = ApplyNullability(node, g.opts.Version)
	}
	return node
}

// memberNode recurses into a member type, guarding against cycles before
// descending. Self-reference is an expected structural case and stays
// silent.
func (g *Generator) memberNode(t *descriptor.Type, ctx *genContext) *Node {
	if t == nil {
		return &Node{Kind: KindObject}
	}

	key := t.Key()
	if ctx.onPath(key) {
		return NewPlaceholder(ReasonCycle, t.Name)
	}

	ctx.ancestry = append(ctx.ancestry, key)
	ctx.depth++
	node := g.expand(t, ctx)
	ctx.depth--
	ctx.ancestry = ctx.ancestry[:len(ctx.ancestry)-1]
	return node
}

// objectNode expands an object type: recurse over properties in declaration
// order, apply constraints and slot nullability, then check virtualization.
func (g *Generator) objectNode(t *descriptor.Type, ctx *genContext) *Node {
	node := &Node{Kind: KindObject}
	nested := 0

	for _, prop := range t.Properties {
		child := g.memberNode(prop.Type, ctx)
		child = g.applyConstraints(child, prop, ctx)
		if prop.Nullable && (prop.Type == nil || !prop.Type.IsNullableValue) {
			child = ApplyNullability(child, g.opts.Version)
		}
		if prop.Type.IsComplex() {
			nested++
		}
		node.Properties = append(node.Properties, Property{Name: prop.Name, Schema: child})
		if prop.Required {
			node.Required = append(node.Required, prop.Name)
		}
	}

	return g.virtualize(t, node, nested, ctx)
}

// applyConstraints applies the property's constraint annotations onto the
// node. Setting a field that already holds a value emits a Warn and the new
// value wins; distinct constraint kinds never conflict.
func (g *Generator) applyConstraints(node *Node, prop descriptor.Property, ctx *genContext) *Node {
	if len(prop.Constraints) == 0 {
		return node
	}

	out := node.clone()
	for _, c := range prop.Constraints {
		switch c.Kind {
		case descriptor.ConstraintMinimum:
			if out.Minimum != nil {
				g.emitConstraintOverwrite(ctx, prop.Name, c, fmt.Sprintf("%v", *out.Minimum))
			}
			v := c.Number
			out.Minimum = &v
		case descriptor.ConstraintMaximum:
			if out.Maximum != nil {
				g.emitConstraintOverwrite(ctx, prop.Name, c, fmt.Sprintf("%v", *out.Maximum))
			}
			v := c.Number
			out.Maximum = &v
		case descriptor.ConstraintMinLength:
			if out.MinLength != nil {
				g.emitConstraintOverwrite(ctx, prop.Name, c, fmt.Sprintf("%d", *out.MinLength))
			}
			v := c.Length
			out.MinLength = &v
		case descriptor.ConstraintMaxLength:
			if out.MaxLength != nil {
				g.emitConstraintOverwrite(ctx, prop.Name, c, fmt.Sprintf("%d", *out.MaxLength))
			}
			v := c.Length
			out.MaxLength = &v
		case descriptor.ConstraintPattern:
			if out.Pattern != "" {
				g.emitConstraintOverwrite(ctx, prop.Name, c, out.Pattern)
			}
			out.Pattern = c.Pattern
		}
	}
	return out
}

func (g *Generator) emitConstraintOverwrite(ctx *genContext, property string, c descriptor.Constraint, previous string) {
	g.emit(ctx, diag.NewEvent(diag.CodeConstraintOverwrite, diag.Warn,
		fmt.Sprintf("constraint %s on %q overwritten: %s -> %s",
			c.Kind, property, previous, c.ValueString()),
		diag.String("constraint", c.Kind.String()),
		diag.String("property", property),
		diag.String("previous", previous),
		diag.String("new", c.ValueString()),
	))
}

// virtualize marks object schemas whose own or nested property count
// strictly exceeds the configured thresholds. Exactly-at-threshold never
// triggers. One Info per triggering type per generation call.
func (g *Generator) virtualize(t *descriptor.Type, node *Node, nested int, ctx *genContext) *Node {
	opts := g.opts
	own := len(node.Properties)
	overOwn := opts.PropertyLimit > 0 && own > opts.PropertyLimit
	overNested := opts.NestedPropertyLimit > 0 && nested > opts.NestedPropertyLimit
	if !overOwn && !overNested {
		return node
	}

	out := node
	var summary string
	switch {
	case overOwn && overNested:
		summary = fmt.Sprintf("%s exceeds both the property threshold (%d > %d) and the nested object threshold (%d > %d)",
			t.Name, own, opts.PropertyLimit, nested, opts.NestedPropertyLimit)
	case overOwn:
		summary = fmt.Sprintf("%s exceeds the property threshold (%d > %d)", t.Name, own, opts.PropertyLimit)
	default:
		summary = fmt.Sprintf("%s exceeds the nested object threshold (%d > %d)", t.Name, nested, opts.NestedPropertyLimit)
	}

	if overOwn {
		out = out.withExtension("x-virtual-properties", true)
		out = out.withExtension("x-property-count", own)
		out = out.withExtension("x-property-threshold", opts.PropertyLimit)
	}
	if overNested {
		out = out.withExtension("x-virtual-nested", true)
		out = out.withExtension("x-nested-count", nested)
		out = out.withExtension("x-nested-threshold", opts.NestedPropertyLimit)
	}
	out = out.withExtension("x-virtual-summary", summary)

	key := t.Key()
	if !ctx.virtualized[key] {
		ctx.virtualized[key] = true
		fields := []diag.Field{diag.String("type", typeDisplayName(t))}
		if overOwn {
			fields = append(fields, diag.Int("property_count", own), diag.Int("property_threshold", opts.PropertyLimit))
		}
		if overNested {
			fields = append(fields, diag.Int("nested_count", nested), diag.Int("nested_threshold", opts.NestedPropertyLimit))
		}
		g.emit(ctx, diag.NewEvent(diag.CodeSchemaVirtualized, diag.Info, summary, fields...))
	}
	return out
}

// primitiveNode is the table-driven primitive mapping. Unknown classes fall
// back to a plain string schema.
func primitiveNode(p descriptor.Primitive) *Node {
	if p == descriptor.PrimitiveChar {
		one := 1
		return &Node{Kind: KindPrimitive, Type: "string", MinLength: &one, MaxLength: &one}
	}
	if m, ok := primitiveTable[p]; ok {
		return &Node{Kind: KindPrimitive, Type: m.jsonType, Format: m.format}
	}
	return &Node{Kind: KindPrimitive, Type: "string"}
}

var primitiveTable = map[descriptor.Primitive]struct {
	jsonType string
	format   string
}{
	descriptor.PrimitiveString:   {"string", ""},
	descriptor.PrimitiveBool:     {"boolean", ""},
	descriptor.PrimitiveInt32:    {"integer", "int32"},
	descriptor.PrimitiveInt64:    {"integer", "int64"},
	descriptor.PrimitiveFloat32:  {"number", "float"},
	descriptor.PrimitiveFloat64:  {"number", "double"},
	descriptor.PrimitiveDecimal:  {"number", "decimal"},
	descriptor.PrimitiveUUID:     {"string", "uuid"},
	descriptor.PrimitiveDateTime: {"string", "date-time"},
	descriptor.PrimitiveDate:     {"string", "date"},
	descriptor.PrimitiveTime:     {"string", "time"},
	descriptor.PrimitiveBytes:    {"string", "byte"},
	descriptor.PrimitiveStream:   {"string", "binary"},
	descriptor.PrimitiveURI:      {"string", "uri"},
}
