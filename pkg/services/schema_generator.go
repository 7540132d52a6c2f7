package services

import (
	"github.com/ekaya-inc/dtdl2oas/pkg/models"
	"github.com/ekaya-inc/dtdl2oas/pkg/naming"
	"github.com/ekaya-inc/dtdl2oas/pkg/oas"
)

// JSON-LD identity fields present on every generated schema.
const (
	FieldID   = "@id"
	FieldType = "@type"
)

// oasType is the OpenAPI (type, format) pair for an ontology primitive.
type oasType struct {
	typ    string
	format string
}

// primitiveTypes is read-only after package init. Kinds missing from the table
// (duration, time) fall back to a plain string.
var primitiveTypes = map[models.PrimitiveKind]oasType{
	models.PrimitiveBoolean:  {oas.TypeBoolean, ""},
	models.PrimitiveDate:     {oas.TypeString, "date"},
	models.PrimitiveDateTime: {oas.TypeString, "date-time"},
	models.PrimitiveDouble:   {oas.TypeNumber, "double"},
	models.PrimitiveFloat:    {oas.TypeNumber, "float"},
	models.PrimitiveInteger:  {oas.TypeInteger, "int32"},
	models.PrimitiveLong:     {oas.TypeInteger, "int64"},
	models.PrimitiveString:   {oas.TypeString, ""},
}

// PrimitiveType returns the OpenAPI type and format for a primitive kind, and whether
// the kind has a dedicated mapping.
func PrimitiveType(kind models.PrimitiveKind) (typ, format string, ok bool) {
	t, ok := primitiveTypes[kind]
	if !ok {
		return oas.TypeString, "", false
	}
	return t.typ, t.format, true
}

// SchemaGenerator builds the components.schemas entry for a mapped Interface.
type SchemaGenerator interface {
	// Generate returns the registry key and the schema of iface.
	Generate(iface *models.Interface) (string, *oas.Schema)
}

type schemaGenerator struct {
	names *naming.Resolver
}

// NewSchemaGenerator creates a SchemaGenerator naming schemas and fields with names.
func NewSchemaGenerator(names *naming.Resolver) SchemaGenerator {
	if names == nil {
		names = naming.NewResolver(nil)
	}
	return &schemaGenerator{names: names}
}

func (g *schemaGenerator) Generate(iface *models.Interface) (string, *oas.Schema) {
	schema := oas.Object()
	schema.Description = iface.Description
	schema.SetProperty(FieldID, oas.Primitive(oas.TypeString, ""), false)
	schema.SetProperty(FieldType, oas.Primitive(oas.TypeString, "").WithDefault(iface.ID.String()), false)

	for _, rel := range iface.AllRelationships() {
		schema.SetProperty(g.names.APIName(rel), relationshipSchema(rel), false)
	}
	for _, prop := range iface.AllProperties() {
		schema.SetProperty(g.names.APIName(prop), propertySchema(prop), false)
	}

	return g.names.SchemaKey(iface), schema
}

// relationshipSchema returns an id/type stub of the target rather than the target's
// schema, so cyclic ontologies never produce cyclic schemas.
func relationshipSchema(rel *models.Relationship) *oas.Schema {
	target := oas.Object()
	target.SetProperty(FieldID, oas.Primitive(oas.TypeString, ""), true)
	typeField := oas.Primitive(oas.TypeString, "")
	if !rel.Target.IsZero() {
		typeField.WithDefault(rel.Target.String())
	}
	target.SetProperty(FieldType, typeField, false)

	if rel.IsSingular() {
		target.Description = rel.Description
		return target
	}
	arr := oas.Array(target, rel.MinMultiplicity, rel.MaxMultiplicity)
	arr.Description = rel.Description
	return arr
}

func propertySchema(prop *models.Property) *oas.Schema {
	typ, format := oas.TypeString, ""
	switch s := prop.Schema.(type) {
	case *models.PrimitiveSchema:
		typ, format, _ = PrimitiveType(s.Kind)
	case *models.ComplexSchema, nil:
		// complex and undeclared schemas are exposed as strings
	}
	schema := oas.Primitive(typ, format)
	schema.Description = prop.Description
	return schema
}
