// Package naming derives API-facing names and documentation labels for ontology entities.
package naming

import (
	"strings"

	"github.com/ekaya-inc/dtdl2oas/pkg/dtmi"
	"github.com/ekaya-inc/dtdl2oas/pkg/models"
)

// DefaultLocale is consulted after the unlocalized display name.
const DefaultLocale = "en"

// Abbreviations maps a namespace (an identifier minus its last segment) to a short alias.
type Abbreviations map[string]string

// Resolver computes names. The zero value uses no abbreviations.
type Resolver struct {
	abbreviations Abbreviations
}

// NewResolver creates a resolver using the given namespace abbreviations, which may be nil.
func NewResolver(abbreviations Abbreviations) *Resolver {
	return &Resolver{abbreviations: abbreviations}
}

// APIName returns the name used for an entity in the generated API. Named elements
// keep their declared name; identified entities use their local segment, prefixed by
// "alias:" when their namespace has an abbreviation.
func (r *Resolver) APIName(entity models.Entity) string {
	switch e := entity.(type) {
	case *models.Property:
		if e.Name != "" {
			return e.Name
		}
		return r.nameFromID(e.ID)
	case *models.Relationship:
		if e.Name != "" {
			return e.Name
		}
		return r.nameFromID(e.ID)
	case *models.Interface:
		return r.nameFromID(e.ID)
	case *models.ComplexSchema:
		if e.ID.IsZero() {
			return e.Kind.String()
		}
		return r.nameFromID(e.ID)
	case *models.PrimitiveSchema:
		return e.Kind.String()
	default:
		return ""
	}
}

// SchemaKey returns APIName with ':' replaced so the result is a valid
// components.schemas key.
func (r *Resolver) SchemaKey(entity models.Entity) string {
	return strings.ReplaceAll(r.APIName(entity), dtmi.SegmentDelimiter, "_")
}

func (r *Resolver) nameFromID(id dtmi.ID) string {
	local := id.LocalName()
	if alias, ok := r.abbreviations[id.Namespace()]; ok && alias != "" {
		return alias + dtmi.SegmentDelimiter + local
	}
	return local
}

// DocumentationName returns the human-readable label of an interface: the unlocalized
// display name, else the "en" one, else the first declared one, else the versionless
// identifier.
func DocumentationName(iface *models.Interface) string {
	if name, ok := iface.DisplayName(""); ok {
		return name
	}
	if name, ok := iface.DisplayName(DefaultLocale); ok {
		return name
	}
	if len(iface.DisplayNames) > 0 {
		return iface.DisplayNames[0].Text
	}
	return iface.ID.Versionless()
}
