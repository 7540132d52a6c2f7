package models

import (
	"github.com/ekaya-inc/dtdl2oas/pkg/dtmi"
)

// Entity is a node of the ontology entity graph. The set of implementations is closed:
// *Interface, *Property, *Relationship, *PrimitiveSchema and *ComplexSchema.
// Consumers dispatch with a type switch.
type Entity interface {
	// EntityID returns the entity identifier; the zero ID for anonymous elements.
	EntityID() dtmi.ID
	isEntity()
}

// Schema is the declared schema of a Property: *PrimitiveSchema or *ComplexSchema.
type Schema interface {
	Entity
	isSchema()
}

// LocalizedText is one display-name entry. Locale is empty for the unlocalized form.
type LocalizedText struct {
	Locale string
	Text   string
}

// Interface describes a class of twin with its properties and relationships.
type Interface struct {
	ID           dtmi.ID
	DisplayNames []LocalizedText // source order
	Description  string
	Extends      []dtmi.ID

	Properties    []*Property     // declared on this interface
	Relationships []*Relationship // declared on this interface

	// Resolved once the whole graph is parsed: own elements first, then inherited
	// ones in extends order, de-duplicated by name.
	allProperties    []*Property
	allRelationships []*Relationship
}

// Property is a named, typed data element of an Interface.
type Property struct {
	ID           dtmi.ID // optional
	Name         string
	DisplayNames []LocalizedText
	Description  string
	Writable     bool
	Schema       Schema
}

// Relationship is a typed, optionally targeted, cardinality-bounded edge between Interfaces.
type Relationship struct {
	ID              dtmi.ID // optional
	Name            string
	DisplayNames    []LocalizedText
	Description     string
	Writable        bool
	Target          dtmi.ID // zero when the relationship is untargeted
	MinMultiplicity *int
	MaxMultiplicity *int
}

// ComplexKind enumerates the non-primitive DTDL schema shapes.
type ComplexKind int

const (
	ComplexObject ComplexKind = iota
	ComplexArray
	ComplexEnum
	ComplexMap
)

// String returns the DTDL @type of the complex schema.
func (k ComplexKind) String() string {
	switch k {
	case ComplexObject:
		return "Object"
	case ComplexArray:
		return "Array"
	case ComplexEnum:
		return "Enum"
	case ComplexMap:
		return "Map"
	default:
		return "Unknown"
	}
}

// ComplexSchema is an Object, Array, Enum or Map schema. Its structure is not modelled
// further because properties with complex schemas are rendered as strings.
type ComplexSchema struct {
	ID   dtmi.ID // optional; set for interface-level schema definitions
	Kind ComplexKind
}

// PrimitiveSchema is one of the DTDL primitive schemas.
type PrimitiveSchema struct {
	Kind PrimitiveKind
}

func (i *Interface) EntityID() dtmi.ID     { return i.ID }
func (p *Property) EntityID() dtmi.ID      { return p.ID }
func (r *Relationship) EntityID() dtmi.ID  { return r.ID }
func (c *ComplexSchema) EntityID() dtmi.ID { return c.ID }
func (*PrimitiveSchema) EntityID() dtmi.ID { return dtmi.ID{} }

func (*Interface) isEntity()       {}
func (*Property) isEntity()        {}
func (*Relationship) isEntity()    {}
func (*ComplexSchema) isEntity()   {}
func (*PrimitiveSchema) isEntity() {}

func (*ComplexSchema) isSchema()   {}
func (*PrimitiveSchema) isSchema() {}

// AllProperties returns own and inherited properties. Before inheritance has been
// resolved it returns the declared properties only.
func (i *Interface) AllProperties() []*Property {
	if i.allProperties == nil {
		return i.Properties
	}
	return i.allProperties
}

// AllRelationships returns own and inherited relationships. Before inheritance has been
// resolved it returns the declared relationships only.
func (i *Interface) AllRelationships() []*Relationship {
	if i.allRelationships == nil {
		return i.Relationships
	}
	return i.allRelationships
}

// SetInherited records the resolved property and relationship sets.
func (i *Interface) SetInherited(props []*Property, rels []*Relationship) {
	i.allProperties = props
	i.allRelationships = rels
}

// DisplayName returns the display name for locale, if declared.
func (i *Interface) DisplayName(locale string) (string, bool) {
	for _, dn := range i.DisplayNames {
		if dn.Locale == locale {
			return dn.Text, true
		}
	}
	return "", false
}

// IsSingular reports whether the relationship holds at most one target.
func (r *Relationship) IsSingular() bool {
	return r.MaxMultiplicity != nil && *r.MaxMultiplicity == 1
}
