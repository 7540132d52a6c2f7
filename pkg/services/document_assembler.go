package services

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/ekaya-inc/dtdl2oas/pkg/mapping"
	"github.com/ekaya-inc/dtdl2oas/pkg/metadata"
	"github.com/ekaya-inc/dtdl2oas/pkg/models"
	"github.com/ekaya-inc/dtdl2oas/pkg/naming"
	"github.com/ekaya-inc/dtdl2oas/pkg/oas"
)

// ContextSchemaName is the components.schemas key of the JSON-LD context schema.
const ContextSchemaName = "Context"

// HydraNamespace is the default value of the context's hydra prefix.
const HydraNamespace = "http://www.w3.org/ns/hydra/core#"

// Resource is an endpoint mapping resolved against the entity graph.
type Resource struct {
	Mapping   mapping.EndpointMapping
	Interface *models.Interface
}

// DocumentAssembler composes the OpenAPI document.
type DocumentAssembler interface {
	// Assemble builds a document for resources, in order. md must already have passed
	// metadata.Map.ValidateForDocument.
	Assemble(resources []Resource, md metadata.Map, serverURL string) *oas.Document
}

type documentAssembler struct {
	schemas    SchemaGenerator
	operations OperationGenerator
	logger     *zap.Logger
}

// NewDocumentAssembler creates a DocumentAssembler.
func NewDocumentAssembler(schemas SchemaGenerator, operations OperationGenerator, logger *zap.Logger) DocumentAssembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &documentAssembler{
		schemas:    schemas,
		operations: operations,
		logger:     logger.Named("assembler"),
	}
}

func (a *documentAssembler) Assemble(resources []Resource, md metadata.Map, serverURL string) *oas.Document {
	var servers []oas.Server
	if serverURL != "" {
		servers = append(servers, oas.Server{URL: serverURL})
	}
	doc := oas.NewDocument(BuildInfo(md), servers...)

	// schema key -> interface that owns it
	owners := make(map[string]*models.Interface)
	tagged := make(map[string]bool)
	operationIDs := make(map[string]int)

	for _, res := range resources {
		key, schema := a.schemas.Generate(res.Interface)
		key = a.claimSchemaKey(owners, key, res.Interface)
		doc.Components.Schemas.Set(key, schema)

		label := naming.DocumentationName(res.Interface)
		ops := a.operations.Generate(res.Mapping.Resource, key, label)
		for _, item := range []*oas.PathItem{ops.Collection, ops.Item} {
			for _, op := range pathOperations(item) {
				op.OperationID = uniqueOperationID(operationIDs, op.OperationID)
			}
		}
		doc.Paths.Set(ops.CollectionPath, ops.Collection)
		doc.Paths.Set(ops.ItemPath, ops.Item)

		if !tagged[label] {
			tagged[label] = true
			doc.Tags = append(doc.Tags, oas.Tag{Name: label, Description: res.Interface.Description})
		}
	}

	doc.Components.Schemas.Set(ContextSchemaName, ContextSchema())
	a.logger.Debug("Document assembled",
		zap.Int("schemas", doc.Components.Schemas.Len()),
		zap.Int("paths", doc.Paths.Len()))
	return doc
}

// claimSchemaKey returns key, or key with a numeric suffix when a different interface
// already owns it. Resources mapped to the same interface share one schema.
func (a *documentAssembler) claimSchemaKey(owners map[string]*models.Interface, key string, iface *models.Interface) string {
	candidate := key
	for n := 2; ; n++ {
		owner, taken := owners[candidate]
		if !taken && candidate != ContextSchemaName {
			owners[candidate] = iface
			break
		}
		if owner == iface {
			break
		}
		candidate = key + "_" + strconv.Itoa(n)
	}
	if candidate != key {
		a.logger.Warn("Schema name collision, using suffixed name",
			zap.String("interface", iface.ID.String()),
			zap.String("schema", key),
			zap.String("renamed_to", candidate))
	}
	return candidate
}

func uniqueOperationID(seen map[string]int, id string) string {
	seen[id]++
	if seen[id] == 1 {
		return id
	}
	for {
		candidate := id + strconv.Itoa(seen[id])
		if _, taken := seen[candidate]; !taken {
			seen[candidate] = 1
			return candidate
		}
		seen[id]++
	}
}

func pathOperations(item *oas.PathItem) []*oas.Operation {
	var ops []*oas.Operation
	for _, op := range []*oas.Operation{item.Get, item.Put, item.Post, item.Delete, item.Patch} {
		if op != nil {
			ops = append(ops, op)
		}
	}
	return ops
}

// BuildInfo maps annotations to the info block. Contact is emitted when any contact
// field is known; license only when it has a name.
func BuildInfo(md metadata.Map) oas.Info {
	info := oas.Info{Title: md.Title()}
	info.Version, _ = md.Get(metadata.KeyVersion)
	info.Description, _ = md.Get(metadata.KeyDescription)
	info.TermsOfService, _ = md.Get(metadata.KeyTermsOfService)

	contact := oas.Contact{}
	contact.Name, _ = md.Get(metadata.KeyContactName)
	if contact.Name == "" {
		contact.Name, _ = md.Get(metadata.KeyAuthors)
	}
	contact.Email, _ = md.Get(metadata.KeyContactEmail)
	contact.URL, _ = md.Get(metadata.KeyContactURL)
	if contact != (oas.Contact{}) {
		info.Contact = &contact
	}

	if name, ok := md.Get(metadata.KeyLicenseName); ok {
		info.License = &oas.License{Name: name}
		info.License.URL, _ = md.Get(metadata.KeyLicenseURL)
	}
	return info
}

// ContextSchema returns the JSON-LD @context schema registered last under
// components.schemas.
func ContextSchema() *oas.Schema {
	s := oas.Object()
	s.SetProperty("@vocab", oas.Primitive(oas.TypeString, ""), true)
	s.SetProperty("@base", oas.Primitive(oas.TypeString, "uri"), true)
	s.SetProperty("hydra", oas.Primitive(oas.TypeString, "uri").WithDefault(HydraNamespace), true)
	return s
}
