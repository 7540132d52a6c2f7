// Package dtmi implements the hierarchical, namespaced and optionally versioned
// identifiers used as keys of the ontology entity graph.
//
// An identifier has the form "seg:seg:...:seg;version", for example
// "dtmi:com:acme:Thing;1". The version suffix is optional.
package dtmi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ekaya-inc/dtdl2oas/pkg/apperrors"
)

const (
	// SegmentDelimiter separates the hierarchical segments of an identifier.
	SegmentDelimiter = ":"
	// VersionDelimiter separates the versionless form from the version number.
	VersionDelimiter = ";"
)

// ID is an immutable entity identifier. It is comparable and can be used as a map key.
// The zero value is the empty identifier.
type ID struct {
	path    string
	version int
}

// Parse parses an identifier in full ("a:b:C;1") or versionless ("a:b:C") form.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ID{}, fmt.Errorf("%w: empty identifier", apperrors.ErrInvalidIdentifier)
	}

	path, versionStr, hasVersion := strings.Cut(s, VersionDelimiter)
	for _, seg := range strings.Split(path, SegmentDelimiter) {
		if seg == "" {
			return ID{}, fmt.Errorf("%w: empty segment in %q", apperrors.ErrInvalidIdentifier, s)
		}
	}

	id := ID{path: path}
	if hasVersion {
		v, err := strconv.Atoi(versionStr)
		if err != nil || v <= 0 {
			return ID{}, fmt.Errorf("%w: version %q in %q must be a positive integer", apperrors.ErrInvalidIdentifier, versionStr, s)
		}
		id.version = v
	}
	return id, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the absolute (full) form, including the version when present.
func (id ID) String() string {
	if id.version == 0 {
		return id.path
	}
	return id.path + VersionDelimiter + strconv.Itoa(id.version)
}

// Versionless returns the identifier without its version suffix.
func (id ID) Versionless() string {
	return id.path
}

// Namespace returns every segment but the last, joined by the segment delimiter.
// A single-segment identifier has an empty namespace.
func (id ID) Namespace() string {
	idx := strings.LastIndex(id.path, SegmentDelimiter)
	if idx < 0 {
		return ""
	}
	return id.path[:idx]
}

// LocalName returns the last segment of the identifier.
func (id ID) LocalName() string {
	idx := strings.LastIndex(id.path, SegmentDelimiter)
	return id.path[idx+1:]
}

// Version returns the version number, or 0 when the identifier is versionless.
func (id ID) Version() int {
	return id.version
}

// HasVersion reports whether the identifier carries a version suffix.
func (id ID) HasVersion() bool {
	return id.version > 0
}

// IsZero reports whether id is the empty identifier.
func (id ID) IsZero() bool {
	return id.path == ""
}
