package oas

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/dtdl2oas/pkg/apperrors"
)

func intPtr(v int) *int { return &v }

func sampleDocument() *Document {
	doc := NewDocument(Info{Title: "Acme", Version: "1.0"}, Server{URL: "http://localhost:8080/"})

	thing := Object()
	thing.SetProperty("@id", Primitive(TypeString, ""), false)
	thing.SetProperty("@type", Primitive(TypeString, "").WithDefault("dtmi:com:acme:Thing;1"), false)
	doc.Components.Schemas.Set("Thing", thing)
	doc.Components.Schemas.Set("Context", Object())

	responses := NewResponses()
	responses.Set("200", &Response{
		Description: "OK",
		Content:     JSONContent("application/json", Array(Ref("Thing"), nil, nil)),
	})
	doc.Paths.Set("/things", &PathItem{Get: &Operation{OperationID: "listThings", Responses: responses}})
	return doc
}

func TestSchema_Kind(t *testing.T) {
	assert.Equal(t, KindPrimitive, Primitive(TypeString, "").Kind())
	assert.Equal(t, KindArray, Array(Primitive(TypeString, ""), nil, nil).Kind())
	assert.Equal(t, KindObject, Object().Kind())
	assert.Equal(t, KindRef, Ref("Thing").Kind())
	assert.Equal(t, "#/components/schemas/Thing", Ref("Thing").Ref)
}

func TestSchema_SetPropertyKeepsOrder(t *testing.T) {
	s := Object()
	s.SetProperty("zeta", Primitive(TypeString, ""), false)
	s.SetProperty("@id", Primitive(TypeString, ""), true)
	s.SetProperty("alpha", Primitive(TypeInteger, "int32"), false)
	s.SetProperty("@id", Primitive(TypeString, ""), true)

	assert.Equal(t, []string{"zeta", "@id", "alpha"}, s.PropertyNames())
	assert.Equal(t, []string{"@id"}, s.Required)
	assert.True(t, s.IsRequired("@id"))
	assert.False(t, s.IsRequired("alpha"))

	alpha, ok := s.Property("alpha")
	require.True(t, ok)
	assert.Equal(t, "int32", alpha.Format)

	_, ok = Primitive(TypeString, "").Property("x")
	assert.False(t, ok)
}

func TestArray_CopiesBounds(t *testing.T) {
	lo := 0
	arr := Array(Primitive(TypeString, ""), &lo, nil)
	lo = 5

	require.NotNil(t, arr.MinItems)
	assert.Equal(t, 0, *arr.MinItems)
	assert.Nil(t, arr.MaxItems)
}

func TestEncode_YAMLKeepsInsertionOrderAndOmitsEmpty(t *testing.T) {
	data, err := Marshal(sampleDocument(), FormatYAML)
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "# OpenAPI 3.0 specification"))
	assert.Contains(t, out, "openapi: 3.0.3")
	assert.Contains(t, out, "operationId: listThings")
	assert.Contains(t, out, "$ref: '#/components/schemas/Thing'")
	assert.Less(t, strings.Index(out, "Thing:"), strings.Index(out, "Context:"))
	assert.Less(t, strings.Index(out, "'@id':"), strings.Index(out, "'@type':"))

	assert.NotContains(t, out, "description: \"\"")
	assert.NotContains(t, out, "null")
	assert.NotContains(t, out, "minItems")
	assert.NotContains(t, out, "license")
	assert.NotContains(t, out, "format:")

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "3.0.3", decoded["openapi"])
}

func TestEncode_JSON(t *testing.T) {
	doc := sampleDocument()
	thing, _ := doc.Components.Schemas.Get("Thing")
	thing.SetProperty("parts", Array(Object(), intPtr(0), intPtr(4)), false)

	data, err := Marshal(doc, FormatJSON)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "3.0.3", decoded["openapi"])

	out := string(data)
	assert.Contains(t, out, `"minItems": 0`)
	assert.Contains(t, out, `"maxItems": 4`)
	assert.Less(t, strings.Index(out, `"Thing"`), strings.Index(out, `"Context"`))
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatForPath("out/openapi.JSON"))
	assert.Equal(t, FormatYAML, FormatForPath("out/openapi.yaml"))
	assert.Equal(t, FormatYAML, FormatForPath("openapi"))
}

func TestWriteFile_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specs", "openapi.yaml")

	require.NoError(t, WriteFile(path, []byte("openapi: 3.0.3\n")))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "openapi: 3.0.3\n", string(content))
}

func TestValidate_AcceptsWellFormedDocument(t *testing.T) {
	data, err := Marshal(sampleDocument(), FormatYAML)
	require.NoError(t, err)

	assert.NoError(t, Validate(context.Background(), data))
}

func TestValidate_RejectsUndeclaredPathParameter(t *testing.T) {
	doc := sampleDocument()
	responses := NewResponses()
	responses.Set("200", &Response{Description: "OK"})
	doc.Paths.Set("/things/{id}", &PathItem{Get: &Operation{OperationID: "getThing", Responses: responses}})

	data, err := Marshal(doc, FormatYAML)
	require.NoError(t, err)

	err = Validate(context.Background(), data)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDocumentInvalid)
}

func TestValidate_RejectsMalformedInput(t *testing.T) {
	err := Validate(context.Background(), []byte("openapi: [unterminated"))
	assert.ErrorIs(t, err, apperrors.ErrDocumentInvalid)
}
