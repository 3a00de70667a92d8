// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workbook

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/sage-dat/pkg/types"
)

// Workbook persists entity tables.
type Workbook interface {
	// Load returns every stored table in sheet order.
	Load() ([]types.Table, error)
	// Save replaces the stored tables that share an entity with tables and
	// appends the others.
	Save(tables []types.Table) error
	Close() error
}

// Open picks the backend from the file extension: .yaml and .yml are YAML
// files, anything else is a SQLite database.
func Open(path string) (Workbook, error) {
	if path == "" {
		return nil, fmt.Errorf("workbook path is required")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return &YAMLFile{Path: path}, nil
	}
	return OpenSQLite(path)
}

// Select keeps the tables whose entity is listed (case-insensitive). No
// entities keeps everything. The result follows the order of tables.
func Select(tables []types.Table, entities []string) []types.Table {
	if len(entities) == 0 {
		return tables
	}
	want := make(map[string]bool, len(entities))
	for _, e := range entities {
		want[strings.ToLower(strings.TrimSpace(e))] = true
	}
	var out []types.Table
	for _, t := range tables {
		if want[strings.ToLower(t.Entity)] {
			out = append(out, t)
		}
	}
	return out
}

// merge replaces tables in existing by entity and appends new ones.
func merge(existing, tables []types.Table) []types.Table {
	pos := make(map[string]int, len(existing))
	out := append([]types.Table(nil), existing...)
	for i, t := range out {
		pos[strings.ToLower(t.Entity)] = i
	}
	for _, t := range tables {
		key := strings.ToLower(t.Entity)
		if i, ok := pos[key]; ok {
			out[i] = t
			continue
		}
		pos[key] = len(out)
		out = append(out, t)
	}
	return out
}
