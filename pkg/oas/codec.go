package oas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a serialization format for documents.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// yamlHeader is written above every generated YAML document.
const yamlHeader = `# OpenAPI 3.0 specification generated from a DTDL ontology by dtdl2oas
# DO NOT EDIT MANUALLY - regenerate from the ontology and endpoint mappings instead
`

// FormatForPath picks JSON for *.json paths and YAML otherwise.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Marshal serializes doc in the given format.
func Marshal(doc *Document, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes doc to w in the given format.
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return nil
	case FormatYAML:
		if _, err := io.WriteString(w, yamlHeader); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %d", format)
	}
}

// WriteFile writes a serialized document to path, creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
