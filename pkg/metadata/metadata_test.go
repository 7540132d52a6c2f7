package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/dtdl2oas/pkg/apperrors"
)

const sampleNuspec = `<?xml version="1.0" encoding="utf-8"?>
<package xmlns="http://schemas.microsoft.com/packaging/2013/05/nuspec.xsd">
  <metadata>
    <id>RealEstateCore.Ontology</id>
    <version>4.0.0</version>
    <authors>RealEstateCore Consortium</authors>
    <description>Ontology for the real estate industry.</description>
    <projectUrl>https://www.realestatecore.io</projectUrl>
    <license type="expression">MIT</license>
  </metadata>
</package>`

func TestParseAnnotations(t *testing.T) {
	input := "title=Acme\nversion=1.0\nlicenseName=MIT\ncontactUrl=https://acme.example/contact?a=b\n"

	m, err := ParseAnnotations(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "Acme", m[KeyTitle])
	assert.Equal(t, "1.0", m[KeyVersion])
	assert.Equal(t, "MIT", m[KeyLicenseName])
	assert.Equal(t, "https://acme.example/contact?a=b", m[KeyContactURL], "value keeps everything after the first '='")
}

func TestParseAnnotations_ValuesAreLiteral(t *testing.T) {
	input := "title=Acme $HOME Ontology\n" +
		"version=1.0\n" +
		"licenseName=MIT\n" +
		"description=Costs $5 per seat #1 choice ${USER}\n" +
		"\n" +
		"url:thing=ok\n" +
		"export contactName = Jane Doe \n"

	m, err := ParseAnnotations(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "Acme $HOME Ontology", m[KeyTitle])
	assert.Equal(t, "Costs $5 per seat #1 choice ${USER}", m[KeyDescription])
	assert.Equal(t, "ok", m["url:thing"])
	assert.NotContains(t, m, "url")
	assert.Equal(t, "Jane Doe", m["export contactName"])
}

func TestParseAnnotations_MalformedLine(t *testing.T) {
	tests := []string{
		"title=Acme\nversion=1.0\nlicenseName=MIT\njust some text\n",
		"title=Acme\nversion=1.0\nlicenseName=MIT\n=value\n",
	}
	for _, input := range tests {
		_, err := ParseAnnotations(strings.NewReader(input))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 4")
	}
}

func TestParseAnnotations_MissingRequiredKeys(t *testing.T) {
	_, err := ParseAnnotations(strings.NewReader("title=Acme\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMissingMetadata)
	assert.Contains(t, err.Error(), "version")
	assert.Contains(t, err.Error(), "licenseName")
	assert.NotContains(t, err.Error(), "title")
}

func TestParseNuspec(t *testing.T) {
	m, err := ParseNuspec(strings.NewReader(sampleNuspec))
	require.NoError(t, err)

	assert.Equal(t, "RealEstateCore.Ontology", m[KeyID])
	assert.Equal(t, "4.0.0", m[KeyVersion])
	assert.Equal(t, "RealEstateCore Consortium", m[KeyAuthors])
	assert.Equal(t, "Ontology for the real estate industry.", m[KeyDescription])
	assert.Equal(t, "https://www.realestatecore.io", m[KeyContactURL])
	assert.Equal(t, "MIT", m[KeyLicenseName])
	assert.Equal(t, "RealEstateCore.Ontology", m.Title(), "title falls back to id")
}

func TestParseNuspec_Errors(t *testing.T) {
	_, err := ParseNuspec(strings.NewReader(`<package><metadata><id>x</id></metadata></package>`))
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedMetadata)

	_, err = ParseNuspec(strings.NewReader(`<package xmlns="http://schemas.microsoft.com/packaging/2010/07/nuspec.xsd"><metadata><id>x</id></metadata></package>`))
	assert.ErrorIs(t, err, apperrors.ErrMissingMetadata)

	_, err = ParseNuspec(strings.NewReader(`not xml`))
	assert.Error(t, err)
}

func TestMap_ValidateForDocument(t *testing.T) {
	assert.NoError(t, Map{KeyTitle: "Acme", KeyVersion: "1.0"}.ValidateForDocument())
	assert.NoError(t, Map{KeyID: "Acme.Pkg", KeyVersion: "1.0"}.ValidateForDocument())

	err := Map{KeyVersion: "1.0"}.ValidateForDocument()
	assert.ErrorIs(t, err, apperrors.ErrMissingMetadata)
	assert.Contains(t, err.Error(), "title")

	err = Map{KeyTitle: "Acme", KeyVersion: "  "}.ValidateForDocument()
	assert.ErrorIs(t, err, apperrors.ErrMissingMetadata)
}

func TestLoadFile_SelectsFormatByExtension(t *testing.T) {
	dir := t.TempDir()

	nuspecPath := filepath.Join(dir, "Ontology.nuspec")
	require.NoError(t, os.WriteFile(nuspecPath, []byte(sampleNuspec), 0644))
	m, err := LoadFile(nuspecPath)
	require.NoError(t, err)
	assert.Equal(t, "4.0.0", m[KeyVersion])

	annotationsPath := filepath.Join(dir, "annotations.txt")
	require.NoError(t, os.WriteFile(annotationsPath, []byte("title=Acme\nversion=2.0\nlicenseName=MIT\n"), 0644))
	m, err = LoadFile(annotationsPath)
	require.NoError(t, err)
	assert.Equal(t, "2.0", m[KeyVersion])

	_, err = LoadFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
