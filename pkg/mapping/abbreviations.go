package mapping

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/dtdl2oas/pkg/apperrors"
	"github.com/ekaya-inc/dtdl2oas/pkg/naming"
)

// LoadAbbreviations reads a YAML mapping of namespace to alias, for example:
//
//	"dtmi:org:brickschema:schema:Brick": brick
//	"dtmi:digitaltwins:rec_3_3:core": rec
func LoadAbbreviations(r io.Reader) (naming.Abbreviations, error) {
	var raw map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse namespace abbreviations: %w", err)
	}

	abbreviations := make(naming.Abbreviations, len(raw))
	for namespace, alias := range raw {
		if namespace == "" || alias == "" {
			return nil, fmt.Errorf("%w: namespace abbreviation %q: %q must not be empty", apperrors.ErrInvalidConfig, namespace, alias)
		}
		abbreviations[namespace] = alias
	}
	return abbreviations, nil
}

// LoadAbbreviationsFile opens path and calls LoadAbbreviations.
func LoadAbbreviationsFile(path string) (naming.Abbreviations, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open namespace abbreviations: %w", err)
	}
	defer f.Close()

	return LoadAbbreviations(f)
}
