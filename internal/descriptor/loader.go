package descriptor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Universe holds a set of named type descriptors loaded from a declaration
// file. It resolves named references into a (possibly cyclic) *Type graph.
type Universe struct {
	types map[string]*Type
	order []string

	// pending holds nullable reference clones awaiting materialization.
	// Bodies are filled in declaration order, so copying the referenced
	// type during fill would capture an empty shell for forward and cyclic
	// references; the copy happens in a third pass instead.
	pending []nullableRef
}

// nullableRef ties an empty nullable clone to the type it will copy once
// every body is filled.
type nullableRef struct {
	clone  *Type
	source *Type
}

// universeDecl is the on-disk shape of a type universe file
type universeDecl struct {
	Types []typeDecl `yaml:"types" json:"types"`
}

type typeDecl struct {
	Name       string         `yaml:"name" json:"name"`
	Namespace  string         `yaml:"namespace" json:"namespace"`
	Kind       string         `yaml:"kind" json:"kind"`
	Generic    bool           `yaml:"generic" json:"generic"`
	Args       []string       `yaml:"args" json:"args"`
	Properties []propertyDecl `yaml:"properties" json:"properties"`
	Members    []memberDecl   `yaml:"members" json:"members"`
	Element    string         `yaml:"element" json:"element"`
}

type propertyDecl struct {
	Name      string   `yaml:"name" json:"name"`
	Type      string   `yaml:"type" json:"type"`
	Required  bool     `yaml:"required" json:"required"`
	Nullable  bool     `yaml:"nullable" json:"nullable"`
	Minimum   *float64 `yaml:"minimum" json:"minimum"`
	Maximum   *float64 `yaml:"maximum" json:"maximum"`
	MinLength *int     `yaml:"minLength" json:"minLength"`
	MaxLength *int     `yaml:"maxLength" json:"maxLength"`
	Pattern   string   `yaml:"pattern" json:"pattern"`
}

type memberDecl struct {
	Name  string `yaml:"name" json:"name"`
	Value any    `yaml:"value" json:"value"`
}

// builtinPrimitives maps declaration type names to primitive classes
var builtinPrimitives = map[string]Primitive{
	"string":    PrimitiveString,
	"bool":      PrimitiveBool,
	"boolean":   PrimitiveBool,
	"int":       PrimitiveInt32,
	"int32":     PrimitiveInt32,
	"int64":     PrimitiveInt64,
	"long":      PrimitiveInt64,
	"float":     PrimitiveFloat32,
	"double":    PrimitiveFloat64,
	"decimal":   PrimitiveDecimal,
	"uuid":      PrimitiveUUID,
	"datetime":  PrimitiveDateTime,
	"date-time": PrimitiveDateTime,
	"date":      PrimitiveDate,
	"time":      PrimitiveTime,
	"char":      PrimitiveChar,
	"bytes":     PrimitiveBytes,
	"binary":    PrimitiveStream,
	"uri":       PrimitiveURI,
}

// Load reads a type universe from a YAML or JSON file. The format is chosen
// by extension: .json uses the JSON decoder, everything else YAML.
func Load(path string) (*Universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read type universe: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

// ParseYAML parses a YAML type universe declaration
func ParseYAML(data []byte) (*Universe, error) {
	var decl universeDecl
	if err := yaml.Unmarshal(data, &decl); err != nil {
		return nil, fmt.Errorf("failed to parse type universe: %w", err)
	}
	return resolve(&decl)
}

// ParseJSON parses a JSON type universe declaration. Numbers decode as
// gojson.Number so enum values above 2^53 keep their exact digits instead
// of rounding through float64.
func ParseJSON(data []byte) (*Universe, error) {
	var decl universeDecl
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&decl); err != nil {
		return nil, fmt.Errorf("failed to parse type universe: %w", err)
	}
	return resolve(&decl)
}

// resolve turns declarations into a resolved type graph. Resolution is
// two-pass so types may reference each other in any order, including cycles.
func resolve(decl *universeDecl) (*Universe, error) {
	u := &Universe{types: make(map[string]*Type)}

	// First pass: create shells so references resolve before bodies exist
	for _, td := range decl.Types {
		if td.Name == "" {
			return nil, fmt.Errorf("type declaration missing name")
		}
		if _, exists := u.types[td.Name]; exists {
			return nil, fmt.Errorf("duplicate type declaration: %s", td.Name)
		}

		fullName := td.Name
		if td.Namespace != "" {
			fullName = td.Namespace + "." + td.Name
		}
		u.types[td.Name] = &Type{Name: td.Name, FullName: fullName}
		u.order = append(u.order, td.Name)
	}

	// Second pass: fill in bodies
	for _, td := range decl.Types {
		if err := u.fillType(u.types[td.Name], td); err != nil {
			return nil, err
		}
	}

	// Third pass: materialize nullable clones. Inner references were
	// appended before outer ones, so nested nullability resolves in order.
	for _, ref := range u.pending {
		body := *ref.source
		body.IsNullableValue = true
		*ref.clone = body
	}
	u.pending = nil

	return u, nil
}

func (u *Universe) fillType(t *Type, td typeDecl) error {
	switch td.Kind {
	case "object", "":
		t.Kind = KindObject
	case "enum":
		t.Kind = KindEnum
	case "array":
		t.Kind = KindArray
	case "dictionary":
		t.Kind = KindDictionary
	case "enumerable":
		t.Kind = KindEnumerable
	default:
		return fmt.Errorf("type %s: unknown kind %q", td.Name, td.Kind)
	}

	if td.Generic {
		t.IsGeneric = true
		for _, argName := range td.Args {
			arg, err := u.lookup(argName)
			if err != nil {
				return fmt.Errorf("type %s: %w", td.Name, err)
			}
			t.GenericArgs = append(t.GenericArgs, arg)
		}
	}

	if td.Element != "" {
		elem, err := u.lookup(td.Element)
		if err != nil {
			return fmt.Errorf("type %s: %w", td.Name, err)
		}
		t.Element = elem
	}

	for _, pd := range td.Properties {
		pt, err := u.lookup(pd.Type)
		if err != nil {
			return fmt.Errorf("type %s, property %s: %w", td.Name, pd.Name, err)
		}
		prop := Property{
			Name:     pd.Name,
			Type:     pt,
			Required: pd.Required,
			Nullable: pd.Nullable,
		}
		if pd.Minimum != nil {
			prop.Constraints = append(prop.Constraints, Minimum(*pd.Minimum))
		}
		if pd.Maximum != nil {
			prop.Constraints = append(prop.Constraints, Maximum(*pd.Maximum))
		}
		if pd.MinLength != nil {
			prop.Constraints = append(prop.Constraints, MinLength(*pd.MinLength))
		}
		if pd.MaxLength != nil {
			prop.Constraints = append(prop.Constraints, MaxLength(*pd.MaxLength))
		}
		if pd.Pattern != "" {
			prop.Constraints = append(prop.Constraints, Pattern(pd.Pattern))
		}
		t.Properties = append(t.Properties, prop)
	}

	for i, md := range td.Members {
		value, err := memberValue(md.Value, i)
		if err != nil {
			return fmt.Errorf("type %s, member %s: %w", td.Name, md.Name, err)
		}
		t.EnumMembers = append(t.EnumMembers, EnumMember{Name: md.Name, Value: value})
	}

	return nil
}

// lookup resolves a type reference. "X[]" means array of X, "map[X]" means
// dictionary with values of X, "X?" means nullable X, and bare builtin names
// resolve to primitives.
func (u *Universe) lookup(ref string) (*Type, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty type reference")
	}

	if strings.HasSuffix(ref, "?") {
		inner, err := u.lookup(strings.TrimSuffix(ref, "?"))
		if err != nil {
			return nil, err
		}
		clone := &Type{Name: inner.Name, IsNullableValue: true}
		u.pending = append(u.pending, nullableRef{clone: clone, source: inner})
		return clone, nil
	}

	if strings.HasSuffix(ref, "[]") {
		elem, err := u.lookup(strings.TrimSuffix(ref, "[]"))
		if err != nil {
			return nil, err
		}
		return &Type{
			Name:    elem.Name + "Array",
			Kind:    KindArray,
			Element: elem,
		}, nil
	}

	if strings.HasPrefix(ref, "map[") && strings.HasSuffix(ref, "]") {
		elem, err := u.lookup(ref[4 : len(ref)-1])
		if err != nil {
			return nil, err
		}
		return &Type{
			Name:    elem.Name + "Map",
			Kind:    KindDictionary,
			Element: elem,
		}, nil
	}

	if prim, ok := builtinPrimitives[strings.ToLower(ref)]; ok {
		return &Type{Name: strings.ToLower(ref), Kind: KindPrimitive, Primitive: prim}, nil
	}

	if t, ok := u.types[ref]; ok {
		return t, nil
	}

	return nil, fmt.Errorf("unresolved type reference: %s", ref)
}

// memberValue normalizes a declared enum member value to its decimal string
// form. A missing value defaults to the member's declaration index.
func memberValue(v any, index int) (string, error) {
	switch value := v.(type) {
	case nil:
		return strconv.Itoa(index), nil
	case string:
		if !validDecimal(value) {
			return "", fmt.Errorf("invalid enum value %q", value)
		}
		return value, nil
	case int:
		return strconv.Itoa(value), nil
	case int64:
		return strconv.FormatInt(value, 10), nil
	case uint64:
		return strconv.FormatUint(value, 10), nil
	case float64:
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10), nil
		}
		return "", fmt.Errorf("enum value %v is not an integer", value)
	case gojson.Number:
		if !validDecimal(value.String()) {
			return "", fmt.Errorf("enum value %v is not an integer", value)
		}
		return value.String(), nil
	default:
		return "", fmt.Errorf("unsupported enum value type %T", v)
	}
}

// validDecimal reports whether s is an optionally signed decimal integer
func validDecimal(s string) bool {
	if s == "" {
		return false
	}
	digits := s
	if s[0] == '-' || s[0] == '+' {
		digits = s[1:]
	}
	if digits == "" {
		return false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Type returns the declared type with the given name
func (u *Universe) Type(name string) (*Type, error) {
	t, ok := u.types[name]
	if !ok {
		return nil, fmt.Errorf("type not found: %s", name)
	}
	return t, nil
}

// Types returns all declared types in declaration order
func (u *Universe) Types() []*Type {
	out := make([]*Type, 0, len(u.order))
	for _, name := range u.order {
		out = append(out, u.types[name])
	}
	return out
}

// Len returns the number of declared types
func (u *Universe) Len() int {
	return len(u.order)
}
