package oas

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/ekaya-inc/dtdl2oas/pkg/apperrors"
)

// Validate loads a serialized document (YAML or JSON) with kin-openapi and checks it
// against the OpenAPI 3.0 rules: required fields, path parameter declarations, unique
// operation ids, resolvable references and schema component names.
func Validate(ctx context.Context, data []byte) error {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDocumentInvalid, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDocumentInvalid, err)
	}
	return nil
}
