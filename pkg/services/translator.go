package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/dtdl2oas/pkg/mapping"
	"github.com/ekaya-inc/dtdl2oas/pkg/metadata"
	"github.com/ekaya-inc/dtdl2oas/pkg/models"
	"github.com/ekaya-inc/dtdl2oas/pkg/naming"
	"github.com/ekaya-inc/dtdl2oas/pkg/oas"
)

// TranslateInput bundles the loaded inputs of one run.
type TranslateInput struct {
	Graph     *models.Graph
	Mappings  []mapping.EndpointMapping
	Metadata  metadata.Map
	ServerURL string
}

// Translator turns a parsed ontology and its mapping table into an OpenAPI document.
type Translator struct {
	assembler DocumentAssembler
	logger    *zap.Logger
}

// NewTranslator wires the schema and operation generators and the assembler.
// abbreviations may be nil.
func NewTranslator(abbreviations naming.Abbreviations, logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	names := naming.NewResolver(abbreviations)
	return &Translator{
		assembler: NewDocumentAssembler(NewSchemaGenerator(names), NewOperationGenerator(), logger),
		logger:    logger,
	}
}

// Translate validates the metadata, resolves every mapping against the graph and
// assembles the document. Nothing is assembled when the metadata is incomplete.
func (t *Translator) Translate(in TranslateInput) (*oas.Document, error) {
	if in.Graph == nil {
		return nil, errors.New("translate: no entity graph")
	}
	if err := in.Metadata.ValidateForDocument(); err != nil {
		return nil, err
	}

	resources := make([]Resource, 0, len(in.Mappings))
	for _, m := range in.Mappings {
		iface, err := in.Graph.Interface(m.Target)
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", m.Resource, err)
		}
		resources = append(resources, Resource{Mapping: m, Interface: iface})
	}

	if len(resources) == 0 {
		t.logger.Warn("No endpoint mappings matched the ontology; the document has no paths")
	}

	doc := t.assembler.Assemble(resources, in.Metadata, in.ServerURL)

	t.logger.Info("Translated ontology",
		zap.String("title", doc.Info.Title),
		zap.Int("resources", len(resources)),
		zap.Int("schemas", doc.Components.Schemas.Len()),
		zap.Int("paths", doc.Paths.Len()))
	return doc, nil
}
