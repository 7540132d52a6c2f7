package apperrors

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidIdentifier   = errors.New("invalid identifier")
	ErrOntologyParse       = errors.New("ontology parse failed")
	ErrUnknownEntity       = errors.New("unknown entity")
	ErrInvalidMapping      = errors.New("invalid endpoint mapping")
	ErrDuplicateResource   = errors.New("duplicate resource name")
	ErrMissingMetadata     = errors.New("missing required metadata")
	ErrUnsupportedMetadata = errors.New("unsupported metadata format")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrDocumentInvalid     = errors.New("generated document failed validation")
)
