// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfextract/pkg/types"
)

// Export file names written next to catalog.db when no path is given.
const (
	ExportYAMLFile = "export.yaml"
	ExportJSONFile = "export.json"
)

// ExportYAML writes every document matching opts to path. An empty path
// writes <dir>/export.yaml. It returns the path written.
func (s *Store) ExportYAML(ctx context.Context, path string, opts ListOptions) (string, error) {
	docs, err := s.exportDocuments(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport(path, ExportYAMLFile, data)
}

// ExportJSON writes every document matching opts to path. An empty path
// writes <dir>/export.json. It returns the path written.
func (s *Store) ExportJSON(ctx context.Context, path string, opts ListOptions) (string, error) {
	docs, err := s.exportDocuments(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport(path, ExportJSONFile, data)
}

func (s *Store) exportDocuments(ctx context.Context, opts ListOptions) ([]types.Document, error) {
	opts.Limit = -1
	docs, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if docs == nil {
		docs = []types.Document{}
	}
	return docs, nil
}

func (s *Store) writeExport(path, defaultName string, data []byte) (string, error) {
	if path == "" {
		path = filepath.Join(s.dir, defaultName)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
