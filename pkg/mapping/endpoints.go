// Package mapping loads the tables that connect REST resources to ontology entities.
package mapping

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/dtdl2oas/pkg/apperrors"
	"github.com/ekaya-inc/dtdl2oas/pkg/dtmi"
	"github.com/ekaya-inc/dtdl2oas/pkg/models"
)

// FieldDelimiter separates the resource name from the entity identifier.
const FieldDelimiter = ";"

// EndpointMapping binds a REST resource name to the Interface it exposes.
type EndpointMapping struct {
	Resource string
	Target   dtmi.ID
}

// Options controls how rows are matched against the entity graph.
type Options struct {
	// Strict turns rows referencing unknown entities into errors instead of skipping them.
	Strict bool
	Logger *zap.Logger
}

// LoadEndpoints reads the endpoint mapping table. The first line is a header; every other
// non-blank line has the form `resource;"identifier"`. Leading and trailing '/' are
// stripped from resource names, so `/things` and `things` are the same resource. Rows whose identifier does not name
// an Interface in graph are skipped, or rejected in strict mode.
func LoadEndpoints(r io.Reader, graph *models.Graph, opts Options) ([]EndpointMapping, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		result    []EndpointMapping
		resources = make(map[string]int)
		skipped   int
		lineNo    int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		if lineNo == 1 {
			continue // header
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		resource, rawID, ok := strings.Cut(line, FieldDelimiter)
		resource = strings.Trim(strings.TrimSpace(resource), "/")
		if !ok || resource == "" {
			return nil, fmt.Errorf("%w: line %d: expected resource%sidentifier, got %q", apperrors.ErrInvalidMapping, lineNo, FieldDelimiter, line)
		}
		rawID = strings.Trim(strings.TrimSpace(rawID), `"`)

		target, found := resolveTarget(graph, rawID)
		if !found {
			if opts.Strict {
				return nil, fmt.Errorf("%w: line %d: resource %q references %q", apperrors.ErrUnknownEntity, lineNo, resource, rawID)
			}
			logger.Warn("Skipping endpoint mapping for unknown interface",
				zap.Int("line", lineNo),
				zap.String("resource", resource),
				zap.String("identifier", rawID),
			)
			skipped++
			continue
		}

		if first, exists := resources[resource]; exists {
			return nil, fmt.Errorf("%w: %q on line %d (first on line %d)", apperrors.ErrDuplicateResource, resource, lineNo, first)
		}
		resources[resource] = lineNo
		result = append(result, EndpointMapping{Resource: resource, Target: target})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read endpoint mappings: %w", err)
	}

	logger.Debug("Endpoint mappings loaded",
		zap.Int("mapped", len(result)),
		zap.Int("skipped", skipped),
	)
	return result, nil
}

// LoadEndpointsFile opens path and calls LoadEndpoints.
func LoadEndpointsFile(path string, graph *models.Graph, opts Options) ([]EndpointMapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open endpoint mappings: %w", err)
	}
	defer f.Close()

	return LoadEndpoints(f, graph, opts)
}

// resolveTarget returns the registered identifier of the Interface named by raw.
func resolveTarget(graph *models.Graph, raw string) (dtmi.ID, bool) {
	id, err := dtmi.Parse(raw)
	if err != nil {
		return dtmi.ID{}, false
	}
	iface, err := graph.Interface(id)
	if err != nil {
		return dtmi.ID{}, false
	}
	return iface.ID, true
}
