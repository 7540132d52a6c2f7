// Package metadata loads the ontology annotations that populate the document info block.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ekaya-inc/dtdl2oas/pkg/apperrors"
)

// Annotation keys
const (
	KeyTitle          = "title"
	KeyID             = "id"
	KeyVersion        = "version"
	KeyDescription    = "description"
	KeyAuthors        = "authors"
	KeyContactName    = "contactName"
	KeyContactEmail   = "contactEmail"
	KeyContactURL     = "contactUrl"
	KeyLicenseName    = "licenseName"
	KeyLicenseURL     = "licenseUrl"
	KeyTermsOfService = "termsOfService"
)

// Map is a flat set of ontology annotations.
type Map map[string]string

// Get returns the trimmed value for key and whether it is non-empty.
func (m Map) Get(key string) (string, bool) {
	v := strings.TrimSpace(m[key])
	return v, v != ""
}

// Title returns the title annotation, falling back to the package id.
func (m Map) Title() string {
	if title, ok := m.Get(KeyTitle); ok {
		return title
	}
	v, _ := m.Get(KeyID)
	return v
}

// Require fails with ErrMissingMetadata naming every absent key.
func (m Map) Require(keys ...string) error {
	var missing []string
	for _, key := range keys {
		if _, ok := m.Get(key); !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrMissingMetadata, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateForDocument checks the keys an OpenAPI info block cannot do without:
// a title (or package id) and a version.
func (m Map) ValidateForDocument() error {
	if m.Title() == "" {
		return fmt.Errorf("%w: %s (or %s)", apperrors.ErrMissingMetadata, KeyTitle, KeyID)
	}
	return m.Require(KeyVersion)
}

// LoadFile reads annotations from path. Files ending in .nuspec or .xml are read as
// package manifests, anything else as key=value annotations.
func LoadFile(path string) (Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".nuspec", ".xml":
		return ParseNuspec(f)
	default:
		return ParseAnnotations(f)
	}
}
