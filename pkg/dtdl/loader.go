package dtdl

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/dtdl2oas/pkg/models"
)

// LoadPath parses a single ontology file, or every *.json file found recursively
// under a directory. Files are read in lexical path order.
func LoadPath(path string, logger *zap.Logger) (*models.Graph, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	files, err := collectFiles(path)
	if err != nil {
		return nil, err
	}

	sources := make([]Source, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read ontology file: %w", err)
		}
		sources = append(sources, Source{Name: file, Data: data})
	}

	graph, err := Parse(sources, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Ontology loaded",
		zap.String("path", path),
		zap.Int("files", len(files)),
		zap.Int("interfaces", len(graph.Interfaces())),
	)
	return graph, nil
}

func collectFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat ontology path: %w", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan ontology directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no JSON files found under %s", root)
	}

	slices.Sort(files)
	return files, nil
}
