package models

import (
	"fmt"

	"github.com/ekaya-inc/dtdl2oas/pkg/apperrors"
	"github.com/ekaya-inc/dtdl2oas/pkg/dtmi"
)

// Graph is the parsed ontology: a read-only mapping from identifier to entity.
// Only entities with an identifier are registered.
type Graph struct {
	entities    map[dtmi.ID]Entity
	versionless map[string][]dtmi.ID
	order       []dtmi.ID
}

// NewGraph builds a graph from identified entities. Duplicate or empty identifiers are errors.
func NewGraph(entities ...Entity) (*Graph, error) {
	g := &Graph{
		entities:    make(map[dtmi.ID]Entity, len(entities)),
		versionless: make(map[string][]dtmi.ID),
	}
	for _, e := range entities {
		id := e.EntityID()
		if id.IsZero() {
			return nil, fmt.Errorf("%w: entity without identifier", apperrors.ErrInvalidIdentifier)
		}
		if _, exists := g.entities[id]; exists {
			return nil, fmt.Errorf("%w: duplicate entity %s", apperrors.ErrInvalidIdentifier, id)
		}
		g.entities[id] = e
		g.versionless[id.Versionless()] = append(g.versionless[id.Versionless()], id)
		g.order = append(g.order, id)
	}
	return g, nil
}

// Len returns the number of registered entities.
func (g *Graph) Len() int {
	return len(g.entities)
}

// Lookup finds an entity by identifier. A versionless identifier matches the highest
// registered version with the same versionless form.
func (g *Graph) Lookup(id dtmi.ID) (Entity, bool) {
	if e, ok := g.entities[id]; ok {
		return e, true
	}
	if id.HasVersion() {
		return nil, false
	}

	var best dtmi.ID
	for _, candidate := range g.versionless[id.Versionless()] {
		if best.IsZero() || candidate.Version() > best.Version() {
			best = candidate
		}
	}
	if best.IsZero() {
		return nil, false
	}
	return g.entities[best], true
}

// Interface returns the Interface registered under id.
func (g *Graph) Interface(id dtmi.ID) (*Interface, error) {
	e, ok := g.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, id)
	}
	iface, ok := e.(*Interface)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an interface", apperrors.ErrNotFound, id)
	}
	return iface, nil
}

// Interfaces returns all interfaces in registration order.
func (g *Graph) Interfaces() []*Interface {
	var result []*Interface
	for _, id := range g.order {
		if iface, ok := g.entities[id].(*Interface); ok {
			result = append(result, iface)
		}
	}
	return result
}
