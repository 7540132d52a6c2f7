package dtdl

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/dtdl2oas/pkg/apperrors"
	"github.com/ekaya-inc/dtdl2oas/pkg/dtmi"
	"github.com/ekaya-inc/dtdl2oas/pkg/models"
)

const buildingOntology = `[
  {
    "@context": "dtmi:dtdl:context;3",
    "@id": "dtmi:com:acme:Space;1",
    "@type": "Interface",
    "displayName": {"sv": "Utrymme", "en": "Space"},
    "contents": [
      {"@type": "Property", "name": "name", "schema": "string"},
      {"@type": "Relationship", "name": "isPartOf", "target": "dtmi:com:acme:Space;1", "maxMultiplicity": 1},
      {"@type": "Telemetry", "name": "occupancy", "schema": "integer"}
    ]
  },
  {
    "@context": "dtmi:dtdl:context;3",
    "@id": "dtmi:com:acme:Room;1",
    "@type": "Interface",
    "displayName": "Room",
    "extends": "dtmi:com:acme:Space;1",
    "schemas": [
      {"@id": "dtmi:com:acme:Dimensions;1", "@type": "Object", "fields": []}
    ],
    "contents": [
      {"@type": ["Property", "Area"], "name": "area", "schema": "double", "writable": true},
      {"@type": "Property", "name": "name", "schema": "string", "description": "Room name"},
      {"@type": "Property", "name": "dimensions", "schema": "dtmi:com:acme:Dimensions;1"},
      {"@type": "Property", "name": "tags", "schema": {"@type": "Array", "elementSchema": "string"}},
      {"@type": "Relationship", "name": "hasPart", "minMultiplicity": 0, "maxMultiplicity": 10}
    ]
  }
]`

func TestParse_BuildsGraph(t *testing.T) {
	graph, err := Parse([]Source{{Name: "building.json", Data: []byte(buildingOntology)}}, zap.NewNop())
	require.NoError(t, err)

	space, err := graph.Interface(dtmi.MustParse("dtmi:com:acme:Space;1"))
	require.NoError(t, err)
	assert.Equal(t, []models.LocalizedText{
		{Locale: "sv", Text: "Utrymme"},
		{Locale: "en", Text: "Space"},
	}, space.DisplayNames)
	require.Len(t, space.Properties, 1, "telemetry is ignored")
	require.Len(t, space.Relationships, 1)
	assert.True(t, space.Relationships[0].IsSingular())
	assert.Equal(t, "dtmi:com:acme:Space;1", space.Relationships[0].Target.String())

	room, err := graph.Interface(dtmi.MustParse("dtmi:com:acme:Room;1"))
	require.NoError(t, err)
	assert.Equal(t, []models.LocalizedText{{Locale: "", Text: "Room"}}, room.DisplayNames)

	// Own properties first, then inherited ones not overridden
	var propNames []string
	for _, p := range room.AllProperties() {
		propNames = append(propNames, p.Name)
	}
	assert.Equal(t, []string{"area", "name", "dimensions", "tags"}, propNames)
	assert.Equal(t, "Room name", room.AllProperties()[1].Description, "own definition wins")

	var relNames []string
	for _, r := range room.AllRelationships() {
		relNames = append(relNames, r.Name)
	}
	assert.Equal(t, []string{"hasPart", "isPartOf"}, relNames)

	area := room.Properties[0]
	assert.True(t, area.Writable)
	require.IsType(t, &models.PrimitiveSchema{}, area.Schema)
	assert.Equal(t, models.PrimitiveDouble, area.Schema.(*models.PrimitiveSchema).Kind)

	dims := room.Properties[2]
	require.IsType(t, &models.ComplexSchema{}, dims.Schema)
	assert.Equal(t, "dtmi:com:acme:Dimensions;1", dims.Schema.EntityID().String())

	tags := room.Properties[3]
	require.IsType(t, &models.ComplexSchema{}, tags.Schema)
	assert.Equal(t, models.ComplexArray, tags.Schema.(*models.ComplexSchema).Kind)

	hasPart := room.Relationships[0]
	require.NotNil(t, hasPart.MinMultiplicity)
	require.NotNil(t, hasPart.MaxMultiplicity)
	assert.Equal(t, 0, *hasPart.MinMultiplicity)
	assert.Equal(t, 10, *hasPart.MaxMultiplicity)
	assert.True(t, hasPart.Target.IsZero())

	_, ok := graph.Lookup(dtmi.MustParse("dtmi:com:acme:Dimensions;1"))
	assert.True(t, ok)
}

func TestParse_CrossFileReferences(t *testing.T) {
	child := `{"@id": "dtmi:com:acme:Child;1", "@type": "Interface", "extends": ["dtmi:com:acme:Parent;1"]}`
	parent := `{"@id": "dtmi:com:acme:Parent;1", "@type": "Interface",
	  "contents": [{"@type": "Property", "name": "label", "schema": "string"}]}`

	graph, err := Parse([]Source{
		{Name: "child.json", Data: []byte(child)},
		{Name: "parent.json", Data: []byte(parent)},
	}, nil)
	require.NoError(t, err)

	c, err := graph.Interface(dtmi.MustParse("dtmi:com:acme:Child;1"))
	require.NoError(t, err)
	require.Len(t, c.AllProperties(), 1)
	assert.Equal(t, "label", c.AllProperties()[0].Name)
}

func TestParse_InlineExtends(t *testing.T) {
	doc := `{"@id": "dtmi:com:acme:Child;1", "@type": "Interface",
	  "extends": {"@id": "dtmi:com:acme:Base;1", "@type": "Interface",
	    "contents": [{"@type": "Relationship", "name": "owner"}]}}`

	graph, err := Parse([]Source{{Name: "inline.json", Data: []byte(doc)}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, graph.Len())

	c, err := graph.Interface(dtmi.MustParse("dtmi:com:acme:Child;1"))
	require.NoError(t, err)
	require.Len(t, c.AllRelationships(), 1)
	assert.Equal(t, "owner", c.AllRelationships()[0].Name)
}

func TestParse_AggregatesProblems(t *testing.T) {
	doc := `[
	  {"@id": "dtmi:com:acme:A;1", "@type": "Interface", "extends": "dtmi:com:acme:Missing;1",
	   "contents": [
	     {"@type": "Property", "name": "1bad", "schema": "string"},
	     {"@type": "Property", "name": "size", "schema": "bigint"},
	     {"@type": "Relationship", "name": "parts", "minMultiplicity": 3, "maxMultiplicity": 2}
	   ]},
	  {"@id": "dtmi:com:acme:A;1", "@type": "Interface"},
	  {"@type": "Interface"}
	]`

	graph, err := Parse([]Source{
		{Name: "bad.json", Data: []byte(doc)},
		{Name: "broken.json", Data: []byte(`{not json`)},
	}, nil)
	require.Error(t, err)
	assert.Nil(t, graph)
	assert.ErrorIs(t, err, apperrors.ErrOntologyParse)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	msg := err.Error()
	assert.Contains(t, msg, `invalid name "1bad"`)
	assert.Contains(t, msg, `unknown schema "bigint"`)
	assert.Contains(t, msg, "minMultiplicity exceeds maxMultiplicity")
	assert.Contains(t, msg, "duplicate identifier dtmi:com:acme:A;1")
	assert.Contains(t, msg, "missing or non-string @id")
	assert.Contains(t, msg, "broken.json: invalid JSON")
	assert.Len(t, parseErr.Problems(), 6)
}

func TestParse_NameLength(t *testing.T) {
	doc := func(name string) []Source {
		return []Source{{Name: "a.json", Data: []byte(`{"@id": "dtmi:com:acme:A;1", "@type": "Interface",
	  "contents": [{"@type": "Property", "name": "` + name + `", "schema": "string"}]}`)}}
	}

	long := "a" + strings.Repeat("b", 510) + "c"
	graph, err := Parse(doc(long), nil)
	require.NoError(t, err, "names up to 512 characters are valid")
	a, err := graph.Interface(dtmi.MustParse("dtmi:com:acme:A;1"))
	require.NoError(t, err)
	assert.Equal(t, long, a.AllProperties()[0].Name)

	_, err = Parse(doc(long+"d"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid name")
}

func TestParse_UnresolvedReferences(t *testing.T) {
	doc := `{"@id": "dtmi:com:acme:A;1", "@type": "Interface", "extends": "dtmi:com:acme:Missing;1",
	  "contents": [{"@type": "Property", "name": "shape", "schema": "dtmi:com:acme:Shape;1"}]}`

	_, err := Parse([]Source{{Name: "a.json", Data: []byte(doc)}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined schema dtmi:com:acme:Shape;1")
	assert.Contains(t, err.Error(), "extends not found")
}

func TestParse_ExtendsCycle(t *testing.T) {
	doc := `[
	  {"@id": "dtmi:com:acme:A;1", "@type": "Interface", "extends": "dtmi:com:acme:B;1"},
	  {"@id": "dtmi:com:acme:B;1", "@type": "Interface", "extends": "dtmi:com:acme:A;1"}
	]`

	_, err := Parse([]Source{{Name: "cycle.json", Data: []byte(doc)}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extends cycle")
}

func TestParse_RejectsNonInterface(t *testing.T) {
	doc := `{"@id": "dtmi:com:acme:A;1", "@type": "Telemetry"}`

	_, err := Parse([]Source{{Name: "a.json", Data: []byte(doc)}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `@type must be "Interface"`)
}

func TestLoadPath_Directory(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(nested, 0755))

	writeFile(t, filepath.Join(dir, "space.json"), `{"@id": "dtmi:com:acme:Space;1", "@type": "Interface"}`)
	writeFile(t, filepath.Join(nested, "room.JSON"), `{"@id": "dtmi:com:acme:Room;1", "@type": "Interface", "extends": "dtmi:com:acme:Space;1"}`)
	writeFile(t, filepath.Join(dir, "README.md"), "not an ontology")

	graph, err := LoadPath(dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, graph.Len())
}

func TestLoadPath_SingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ontology.dtdl")
	writeFile(t, path, `{"@id": "dtmi:com:acme:Space;1", "@type": "Interface"}`)

	graph, err := LoadPath(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, graph.Len())
}

func TestLoadPath_Errors(t *testing.T) {
	_, err := LoadPath(filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)

	_, err = LoadPath(t.TempDir(), nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no JSON files"))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
