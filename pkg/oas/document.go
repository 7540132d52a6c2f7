// Package oas is the OpenAPI 3.0 object model emitted by the generator, with its YAML and
// JSON codec and a validator.
//
// Maps that carry meaning in their order (paths, schemas, properties, responses, content)
// are ordered maps, so the serialized document follows insertion order.
package oas

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Version is the OpenAPI version written to generated documents.
const Version = "3.0.3"

// SchemaRefPrefix prefixes references to entries of components.schemas.
const SchemaRefPrefix = "#/components/schemas/"

// Ordered collections of the document.
type (
	Paths     = orderedmap.OrderedMap[string, *PathItem]
	Schemas   = orderedmap.OrderedMap[string, *Schema]
	Responses = orderedmap.OrderedMap[string, *Response]
	Content   = orderedmap.OrderedMap[string, *MediaType]
)

// Document is the root OpenAPI object.
type Document struct {
	OpenAPI    string      `yaml:"openapi" json:"openapi"`
	Info       Info        `yaml:"info" json:"info"`
	Servers    []Server    `yaml:"servers,omitempty" json:"servers,omitempty"`
	Paths      *Paths      `yaml:"paths" json:"paths"`
	Components *Components `yaml:"components,omitempty" json:"components,omitempty"`
	Tags       []Tag       `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Info contains API metadata.
type Info struct {
	Title          string   `yaml:"title" json:"title"`
	Description    string   `yaml:"description,omitempty" json:"description,omitempty"`
	TermsOfService string   `yaml:"termsOfService,omitempty" json:"termsOfService,omitempty"`
	Contact        *Contact `yaml:"contact,omitempty" json:"contact,omitempty"`
	License        *License `yaml:"license,omitempty" json:"license,omitempty"`
	Version        string   `yaml:"version" json:"version"`
}

// Contact is the contact information of the exposed API.
type Contact struct {
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
	URL   string `yaml:"url,omitempty" json:"url,omitempty"`
	Email string `yaml:"email,omitempty" json:"email,omitempty"`
}

// License is the license information of the exposed API.
type License struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url,omitempty" json:"url,omitempty"`
}

// Server defines an API server.
type Server struct {
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Tag groups operations in documentation tools.
type Tag struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Components holds reusable objects.
type Components struct {
	Schemas *Schemas `yaml:"schemas,omitempty" json:"schemas,omitempty"`
}

// PathItem describes the operations available on a path.
type PathItem struct {
	Get    *Operation `yaml:"get,omitempty" json:"get,omitempty"`
	Put    *Operation `yaml:"put,omitempty" json:"put,omitempty"`
	Post   *Operation `yaml:"post,omitempty" json:"post,omitempty"`
	Delete *Operation `yaml:"delete,omitempty" json:"delete,omitempty"`
	Patch  *Operation `yaml:"patch,omitempty" json:"patch,omitempty"`
}

// Operation describes a single API operation on a path.
type Operation struct {
	Tags        []string     `yaml:"tags,omitempty" json:"tags,omitempty"`
	Summary     string       `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	OperationID string       `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Parameters  []Parameter  `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBody *RequestBody `yaml:"requestBody,omitempty" json:"requestBody,omitempty"`
	Responses   *Responses   `yaml:"responses" json:"responses"`
}

// Parameter describes an operation parameter.
type Parameter struct {
	Name        string  `yaml:"name" json:"name"`
	In          string  `yaml:"in" json:"in"` // "query", "path", "header"
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool    `yaml:"required,omitempty" json:"required,omitempty"`
	Schema      *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// RequestBody describes a request payload.
type RequestBody struct {
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool     `yaml:"required,omitempty" json:"required,omitempty"`
	Content     *Content `yaml:"content" json:"content"`
}

// Response describes an operation response.
type Response struct {
	Description string   `yaml:"description" json:"description"`
	Content     *Content `yaml:"content,omitempty" json:"content,omitempty"`
}

// MediaType describes a media type and its schema.
type MediaType struct {
	Schema *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// NewDocument returns a document with empty paths and schemas.
func NewDocument(info Info, servers ...Server) *Document {
	return &Document{
		OpenAPI: Version,
		Info:    info,
		Servers: servers,
		Paths:   orderedmap.New[string, *PathItem](),
		Components: &Components{
			Schemas: orderedmap.New[string, *Schema](),
		},
	}
}

// NewResponses returns an empty ordered set of responses.
func NewResponses() *Responses {
	return orderedmap.New[string, *Response]()
}

// JSONContent returns content holding schema under mediaType.
func JSONContent(mediaType string, schema *Schema) *Content {
	c := orderedmap.New[string, *MediaType]()
	c.Set(mediaType, &MediaType{Schema: schema})
	return c
}
