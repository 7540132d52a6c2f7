package services

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"

	"github.com/ekaya-inc/dtdl2oas/pkg/oas"
)

// MediaType is the content type of every request and response body.
const MediaType = "application/json"

// IDParameter is the path parameter of item operations.
const IDParameter = "id"

// ResourceOperations holds the two path items generated for a resource.
type ResourceOperations struct {
	CollectionPath string
	Collection     *oas.PathItem
	ItemPath       string
	Item           *oas.PathItem
}

// OperationGenerator builds the CRUD operations of a resource. Resource names are
// expected in plural form; item operation ids use their singular.
type OperationGenerator interface {
	// Generate returns list/create on the collection path and read/patch/put/delete on
	// the item path. schemaName is the components.schemas key of the resource schema and
	// label its documentation name.
	Generate(resource, schemaName, label string) ResourceOperations
}

type operationGenerator struct{}

// NewOperationGenerator creates an OperationGenerator.
func NewOperationGenerator() OperationGenerator {
	return &operationGenerator{}
}

func (g *operationGenerator) Generate(resource, schemaName, label string) ResourceOperations {
	resource = strings.Trim(resource, "/")
	plural := pascalCase(resource)
	singular := pascalCase(inflection.Singular(resource))
	labels := inflection.Plural(label)
	tags := []string{label}

	collection := &oas.PathItem{
		Get: &oas.Operation{
			Tags:        tags,
			Summary:     "List " + labels,
			OperationID: "list" + plural,
			Responses: responses(
				response{"200", "OK", oas.Array(oas.Ref(schemaName), nil, nil)},
			),
		},
		Post: &oas.Operation{
			Tags:        tags,
			Summary:     "Create " + label,
			OperationID: "create" + singular,
			RequestBody: requestBody(label, schemaName),
			Responses: responses(
				response{"201", "Created", oas.Ref(schemaName)},
				response{"400", "Bad request", nil},
			),
		},
	}

	params := []oas.Parameter{{
		Name:        IDParameter,
		In:          "path",
		Description: "Identifier of the " + label,
		Required:    true,
		Schema:      oas.Primitive(oas.TypeString, ""),
	}}

	item := &oas.PathItem{
		Get: &oas.Operation{
			Tags:        tags,
			Summary:     "Get " + label + " by id",
			OperationID: "get" + singular,
			Parameters:  params,
			Responses: responses(
				response{"200", "OK", oas.Ref(schemaName)},
				response{"404", "Not found", nil},
			),
		},
		Patch: &oas.Operation{
			Tags:        tags,
			Summary:     "Partially update " + label,
			OperationID: "update" + singular,
			Parameters:  params,
			RequestBody: requestBody(label, schemaName),
			Responses: responses(
				response{"200", "OK", oas.Ref(schemaName)},
				response{"400", "Bad request", nil},
				response{"404", "Not found", nil},
			),
		},
		Put: &oas.Operation{
			Tags:        tags,
			Summary:     "Replace " + label,
			OperationID: "replace" + singular,
			Parameters:  params,
			RequestBody: requestBody(label, schemaName),
			Responses: responses(
				response{"200", "OK", oas.Ref(schemaName)},
				response{"400", "Bad request", nil},
				response{"404", "Not found", nil},
			),
		},
		Delete: &oas.Operation{
			Tags:        tags,
			Summary:     "Delete " + label,
			OperationID: "delete" + singular,
			Parameters:  params,
			Responses: responses(
				response{"204", "No content", nil},
				response{"404", "Not found", nil},
			),
		},
	}

	return ResourceOperations{
		CollectionPath: "/" + resource,
		Collection:     collection,
		ItemPath:       "/" + resource + "/{" + IDParameter + "}",
		Item:           item,
	}
}

func requestBody(label, schemaName string) *oas.RequestBody {
	return &oas.RequestBody{
		Description: label + " to store",
		Required:    true,
		Content:     oas.JSONContent(MediaType, oas.Ref(schemaName)),
	}
}

type response struct {
	status      string
	description string
	schema      *oas.Schema // nil for responses without content
}

func responses(entries ...response) *oas.Responses {
	out := oas.NewResponses()
	for _, e := range entries {
		resp := &oas.Response{Description: e.description}
		if e.schema != nil {
			resp.Content = oas.JSONContent(MediaType, e.schema)
		}
		out.Set(e.status, resp)
	}
	return out
}

// pascalCase joins the alphanumeric words of s, upper-casing the first letter of each.
func pascalCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}
