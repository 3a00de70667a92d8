// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export regenerates DAT files from entity tables. Rows are grouped
// by the file they came from, rendered back to DAT text and written under a
// destination root, keeping one .bak generation of any file replaced.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/sage-dat/internal/datfile"
	"github.com/pdiddy/sage-dat/internal/workbook"
	"github.com/pdiddy/sage-dat/pkg/types"
)

// backupSuffix is appended to a replaced file's name.
const backupSuffix = ".bak"

// Options controls an export run.
type Options struct {
	// Entities restricts the export to the listed tables. Empty exports all.
	Entities []string

	// Encoding is the output character set; empty means UTF-8.
	Encoding types.Encoding
}

// Report holds the outcome of an export run.
type Report struct {
	// Written lists the origins written, in write order.
	Written []string

	// Skipped counts entities left out because of missing columns.
	Skipped int

	// Errors collects recoverable failures: missing structural columns and
	// per-file write errors.
	Errors []error
}

// Total returns the number of files attempted.
func (r *Report) Total() int {
	n := len(r.Written)
	for _, err := range r.Errors {
		var we *types.FileWriteError
		if errors.As(err, &we) {
			n++
		}
	}
	return n
}

// HasFailures reports whether anything was not exported.
func (r *Report) HasFailures() bool {
	return len(r.Errors) > 0
}

// Err joins the recoverable errors, or returns nil.
func (r *Report) Err() error {
	return errors.Join(r.Errors...)
}

// Export writes the selected tables under dest. A dest that is not a
// directory is fatal and returns *types.InvalidRootError; everything else is
// collected in the report.
func Export(tables []types.Table, dest string, opts Options) (*Report, error) {
	if err := checkDest(dest); err != nil {
		return nil, err
	}

	report := &Report{}
	var recs []types.Record
	for _, t := range workbook.Select(tables, opts.Entities) {
		rows, err := workbook.ToRecords(t)
		if err != nil {
			log.Warn().Err(err).Str("entity", t.Entity).Msg("Skipping entity")
			report.Errors = append(report.Errors, err)
			report.Skipped++
			continue
		}
		recs = append(recs, rows...)
	}

	writeGroups(Group(recs), dest, opts.Encoding, report)
	return report, nil
}

// ExportRecords writes recs under dest without going through tables.
func ExportRecords(recs []types.Record, dest string, opts Options) (*Report, error) {
	if err := checkDest(dest); err != nil {
		return nil, err
	}
	report := &Report{}
	writeGroups(Group(recs), dest, opts.Encoding, report)
	return report, nil
}

func checkDest(dest string) error {
	info, err := os.Stat(dest)
	if err != nil {
		return &types.InvalidRootError{Path: dest, Err: err}
	}
	if !info.IsDir() {
		return &types.InvalidRootError{Path: dest}
	}
	return nil
}

// FileGroup is the records of one origin file in output order.
type FileGroup struct {
	Origin  string
	Records []types.Record
}

// Group buckets recs by origin. Origins naming the same file ("a.dat",
// "./a.dat") share one group under the cleaned form. Groups follow the first
// appearance of each file; records keep their relative order.
func Group(recs []types.Record) []FileGroup {
	idx := make(map[string]int)
	var groups []FileGroup
	for _, r := range recs {
		if r.Origin() == "" {
			continue
		}
		origin := cleanOrigin(r.Origin())
		i, ok := idx[origin]
		if !ok {
			i = len(groups)
			idx[origin] = i
			groups = append(groups, FileGroup{Origin: origin})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

func writeGroups(groups []FileGroup, dest string, enc types.Encoding, report *Report) {
	for _, g := range groups {
		path, err := destPath(dest, g.Origin)
		if err == nil {
			var data []byte
			if data, err = datfile.Encode(RenderFile(g.Records), enc); err == nil {
				err = writeWithBackup(path, data)
			}
		}
		if err != nil {
			log.Warn().Err(err).Str("path", g.Origin).Msg("Write failed")
			report.Errors = append(report.Errors, &types.FileWriteError{Path: g.Origin, Err: err})
			continue
		}
		log.Debug().Str("path", g.Origin).Int("records", len(g.Records)).Msg("Wrote file")
		report.Written = append(report.Written, g.Origin)
	}

	log.Info().
		Str("dest", dest).
		Int("written", len(report.Written)).
		Int("errors", len(report.Errors)).
		Msg("Export complete")
}

// cleanOrigin is the slash-separated form destPath resolves an origin to.
func cleanOrigin(origin string) string {
	return filepath.ToSlash(filepath.Clean(filepath.FromSlash(origin)))
}

// destPath maps an origin onto dest, refusing paths that leave it.
func destPath(dest, origin string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(origin))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("origin %q is outside the destination root", origin)
	}
	return filepath.Join(dest, rel), nil
}

// writeWithBackup renames an existing file at path to path.bak, dropping
// any older backup first, then writes data.
func writeWithBackup(path string, data []byte) error {
	if _, err := os.Stat(path); err == nil {
		bak := path + backupSuffix
		if err := os.Remove(bak); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing old backup: %w", err)
		}
		if err := os.Rename(path, bak); err != nil {
			return fmt.Errorf("creating backup: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
