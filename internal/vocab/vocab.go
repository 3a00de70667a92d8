// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vocab derives the set of entity-type names recognized in a
// directory. A block header is only recognized when a .dat file of the same
// name sits next to the file being parsed.
package vocab

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Vocabulary is a set of upper-cased entity-type names.
type Vocabulary map[string]struct{}

// New builds a vocabulary from names; each is upper-cased.
func New(names ...string) Vocabulary {
	v := make(Vocabulary, len(names))
	for _, n := range names {
		v[strings.ToUpper(n)] = struct{}{}
	}
	return v
}

// Build lists dir and returns the upper-cased basenames of its .dat files
// (extension matched case-insensitively). An unreadable or empty directory
// yields an empty vocabulary.
func Build(dir string) Vocabulary {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Vocabulary{}
	}
	v := make(Vocabulary)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if !strings.EqualFold(ext, ".dat") {
			continue
		}
		v[strings.ToUpper(strings.TrimSuffix(name, ext))] = struct{}{}
	}
	return v
}

// Contains reports whether name, upper-cased, is in the vocabulary.
func (v Vocabulary) Contains(name string) bool {
	_, ok := v[strings.ToUpper(name)]
	return ok
}

// Names returns the entries sorted.
func (v Vocabulary) Names() []string {
	out := make([]string, 0, len(v))
	for n := range v {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Cache memoizes Build per directory for the duration of one walk.
type Cache struct {
	dirs map[string]Vocabulary
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{dirs: make(map[string]Vocabulary)}
}

// For returns the vocabulary of dir, building it on first use.
func (c *Cache) For(dir string) Vocabulary {
	dir = filepath.Clean(dir)
	if v, ok := c.dirs[dir]; ok {
		return v
	}
	v := Build(dir)
	c.dirs[dir] = v
	return v
}
