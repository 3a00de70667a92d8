// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// InvalidRootError is returned when an import source or export destination
// is not a directory. It is fatal: no file is read or written.
type InvalidRootError struct {
	Path string
	Err  error
}

func (e *InvalidRootError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid root %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid root %s: not a directory", e.Path)
}

func (e *InvalidRootError) Unwrap() error { return e.Err }

// FileReadError reports a source file that could not be read. The file is
// skipped and the import continues.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// FileWriteError reports a destination file that could not be written. The
// remaining files of the batch are still written.
type FileWriteError struct {
	Path string
	Err  error
}

func (e *FileWriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *FileWriteError) Unwrap() error { return e.Err }

// MissingStructuralColumnsError reports an entity table without one of the
// reserved columns. That entity is not exported.
type MissingStructuralColumnsError struct {
	Entity  string
	Missing []string
}

func (e *MissingStructuralColumnsError) Error() string {
	return fmt.Sprintf("entity %q is missing column(s) %s", e.Entity, strings.Join(e.Missing, ", "))
}
