package oas

import (
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// OpenAPI data types
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// SchemaKind is the variant a Schema node represents.
type SchemaKind int

const (
	KindPrimitive SchemaKind = iota
	KindArray
	KindObject
	KindRef
)

// String returns a readable name for the kind.
func (k SchemaKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindRef:
		return "ref"
	default:
		return "unknown"
	}
}

// Schema is a schema node. Build nodes with Primitive, Array, Object or Ref so that
// each node holds exactly one variant.
type Schema struct {
	Ref         string   `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Type        string   `yaml:"type,omitempty" json:"type,omitempty"`
	Format      string   `yaml:"format,omitempty" json:"format,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Default     any      `yaml:"default,omitempty" json:"default,omitempty"`
	Items       *Schema  `yaml:"items,omitempty" json:"items,omitempty"`
	MinItems    *int     `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	MaxItems    *int     `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`
	Properties  *Schemas `yaml:"properties,omitempty" json:"properties,omitempty"`
	Required    []string `yaml:"required,omitempty" json:"required,omitempty"`
}

// Primitive returns a scalar schema. format may be empty.
func Primitive(typ, format string) *Schema {
	return &Schema{Type: typ, Format: format}
}

// Array returns an array schema. Nil bounds are omitted.
func Array(items *Schema, minItems, maxItems *int) *Schema {
	return &Schema{
		Type:     TypeArray,
		Items:    items,
		MinItems: copyInt(minItems),
		MaxItems: copyInt(maxItems),
	}
}

// Object returns an object schema without properties.
func Object() *Schema {
	return &Schema{
		Type:       TypeObject,
		Properties: orderedmap.New[string, *Schema](),
	}
}

// Ref returns a reference to the components.schemas entry called name.
func Ref(name string) *Schema {
	return &Schema{Ref: SchemaRefPrefix + name}
}

// WithDefault sets the default value and returns s.
func (s *Schema) WithDefault(v any) *Schema {
	s.Default = v
	return s
}

// Kind reports which variant s holds.
func (s *Schema) Kind() SchemaKind {
	switch {
	case s.Ref != "":
		return KindRef
	case s.Type == TypeArray:
		return KindArray
	case s.Type == TypeObject || s.Properties != nil:
		return KindObject
	default:
		return KindPrimitive
	}
}

// SetProperty adds or replaces a property of an object schema, keeping insertion order.
func (s *Schema) SetProperty(name string, prop *Schema, required bool) {
	if s.Properties == nil {
		s.Properties = orderedmap.New[string, *Schema]()
	}
	s.Properties.Set(name, prop)
	if required && !slices.Contains(s.Required, name) {
		s.Required = append(s.Required, name)
	}
}

// Property returns the named property of an object schema.
func (s *Schema) Property(name string) (*Schema, bool) {
	if s.Properties == nil {
		return nil, false
	}
	return s.Properties.Get(name)
}

// PropertyNames returns property names in insertion order.
func (s *Schema) PropertyNames() []string {
	if s.Properties == nil {
		return nil
	}
	names := make([]string, 0, s.Properties.Len())
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// IsRequired reports whether name is listed as required.
func (s *Schema) IsRequired(name string) bool {
	return slices.Contains(s.Required, name)
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
