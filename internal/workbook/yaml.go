// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workbook

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sage-dat/pkg/types"
)

// yamlDocument is the on-disk layout of a YAML workbook.
type yamlDocument struct {
	Sheets []types.Table `yaml:"sheets"`
}

// YAMLFile is a workbook stored as a single YAML document. A missing file
// is an empty workbook.
type YAMLFile struct {
	Path string
}

// Load reads every sheet.
func (f *YAMLFile) Load() ([]types.Table, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing workbook %s: %w", f.Path, err)
	}
	return doc.Sheets, nil
}

// Save merges tables into the file and rewrites it.
func (f *YAMLFile) Save(tables []types.Table) error {
	existing, err := f.Load()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(&yamlDocument{Sheets: merge(existing, tables)})
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if dir := filepath.Dir(f.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating workbook directory: %w", err)
		}
	}
	return os.WriteFile(f.Path, data, 0o644)
}

// Close is a no-op; the file is not held open.
func (f *YAMLFile) Close() error { return nil }
