// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus imports a directory tree of DAT files into a record store
// keyed by entity. Each directory contributes its own vocabulary; blocks are
// grouped by entity type regardless of the file they came from.
package corpus

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/sage-dat/internal/datfile"
	"github.com/pdiddy/sage-dat/internal/vocab"
	"github.com/pdiddy/sage-dat/pkg/types"
)

// Options controls an import run. The zero value imports everything in
// replace mode with literal includes and latin-1 decoding.
type Options struct {
	// Entities restricts the walk to files whose own key is listed
	// (case-insensitive), and the merge to those entities.
	Entities []string

	Mode types.ImportMode

	// Include selects literal or recursive include handling. Recursive
	// resolution never re-enters a file on the current include chain, and
	// parses each file at most once per run: the first include or walk visit
	// that reaches a file inlines it, later includes of the same file (a
	// diamond a->c, b->c) and the walk itself leave only the directive. Which
	// include inlines a shared file therefore follows the lexical walk order.
	Include types.IncludeResolution

	Encoding types.Encoding

	// Into is the store merged into. Nil starts from an empty store.
	Into *Store
}

// Result holds the outcome of an import run.
type Result struct {
	// Store is the merged record store.
	Store *Store

	// Entities lists the keys that received at least one record in this
	// run, in discovery order.
	Entities []string

	// Files counts the files parsed successfully.
	Files int

	// Errors collects recoverable per-file failures.
	Errors []error
}

// HasFailures reports whether any file could not be read.
func (r *Result) HasFailures() bool {
	return len(r.Errors) > 0
}

// Err joins the recoverable errors, or returns nil.
func (r *Result) Err() error {
	return errors.Join(r.Errors...)
}

// Import walks root, parses every .dat file and merges the records into
// opts.Into (or a new store). A root that is not a directory is fatal and
// returns *types.InvalidRootError; unreadable files are collected in
// Result.Errors.
func Import(root string, opts Options) (*Result, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &types.InvalidRootError{Path: root, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &types.InvalidRootError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &types.InvalidRootError{Path: root}
	}

	imp := &importer{
		root:   abs,
		opts:   opts,
		filter: filterSet(opts.Entities),
		vocabs: vocab.NewCache(),
		parsed: make(map[string]bool),
		stack:  make(map[string]bool),
		found:  NewStore(),
	}

	if err := filepath.WalkDir(abs, imp.visit); err != nil {
		return nil, err
	}

	target := opts.Into
	if target == nil {
		target = NewStore()
	}

	result := &Result{Store: target, Files: imp.files, Errors: imp.errs}
	for _, key := range imp.found.Keys() {
		if imp.filter != nil && !imp.filter[key] {
			continue
		}
		recs := imp.found.Records(key)
		if opts.Mode == types.ModeUpdate {
			target.add(key, recs...)
		} else {
			target.Set(key, recs)
		}
		result.Entities = append(result.Entities, key)
	}

	log.Info().
		Str("root", abs).
		Int("files", result.Files).
		Int("entities", len(result.Entities)).
		Int("errors", len(result.Errors)).
		Msg("Import complete")

	return result, nil
}

// filterSet lower-cases names into a set. No names means no filter.
func filterSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			set[n] = true
		}
	}
	return set
}

// importer holds the state of one run. Nothing here outlives Import.
type importer struct {
	root   string
	opts   Options
	filter map[string]bool
	vocabs *vocab.Cache

	// parsed marks files already read this run; stack marks files on the
	// current include chain.
	parsed map[string]bool
	stack  map[string]bool

	found *Store
	files int
	errs  []error
}

func (imp *importer) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Error walking path")
		imp.errs = append(imp.errs, &types.FileReadError{Path: imp.origin(path), Err: err})
		if d != nil && d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}
	if d.IsDir() || !isDatFile(d.Name()) {
		return nil
	}
	if imp.filter != nil && !imp.filter[types.FileKey(d.Name())] {
		return nil
	}
	if imp.parsed[path] {
		log.Debug().Str("path", path).Msg("Already imported through an include")
		return nil
	}

	for _, r := range imp.parse(path) {
		imp.found.Append(r)
	}
	return nil
}

// parse reads one file and, under recursive resolution, inlines the records
// of each active include right after the directive.
func (imp *importer) parse(path string) []types.Record {
	imp.parsed[path] = true
	imp.stack[path] = true
	defer delete(imp.stack, path)

	origin := imp.origin(path)
	recs, err := datfile.ParseFile(path, origin, imp.vocabs.For(filepath.Dir(path)), imp.opts.Encoding)
	if err != nil {
		log.Warn().Err(err).Str("path", origin).Msg("Skipping unreadable file")
		imp.errs = append(imp.errs, err)
		return nil
	}
	imp.files++

	if imp.opts.Include != types.IncludeRecursive {
		return recs
	}

	out := make([]types.Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, r)
		if inc, ok := r.(types.IncludeActive); ok {
			out = append(out, imp.resolve(path, inc.Target)...)
		}
	}
	return out
}

// resolve follows an include target relative to the including file.
func (imp *importer) resolve(from, target string) []types.Record {
	target = strings.Trim(strings.TrimSpace(target), `"'<>`)
	if target == "" {
		return nil
	}
	path := filepath.FromSlash(target)
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(from), path)
	}
	path = filepath.Clean(path)

	switch {
	case imp.stack[path]:
		log.Warn().Str("from", imp.origin(from)).Str("include", target).Msg("Include cycle, not followed")
		return nil
	case imp.parsed[path]:
		log.Debug().Str("include", target).Msg("Include already imported")
		return nil
	case !imp.within(path):
		log.Warn().Str("from", imp.origin(from)).Str("include", target).Msg("Include outside the import root, not followed")
		return nil
	}
	return imp.parse(path)
}

// origin returns path relative to the import root, slash-separated.
func (imp *importer) origin(path string) string {
	rel, err := filepath.Rel(imp.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (imp *importer) within(path string) bool {
	rel, err := filepath.Rel(imp.root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func isDatFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".dat")
}
