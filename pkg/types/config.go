// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// ImportMode controls how an import merges into an existing record store.
type ImportMode string

const (
	// ModeReplace discards the existing records of every entity the import
	// populates before appending the new ones.
	ModeReplace ImportMode = "replace"
	// ModeUpdate appends the new records after the existing ones.
	ModeUpdate ImportMode = "update"
)

// IncludeResolution selects how #include directives are handled on import.
type IncludeResolution string

const (
	// IncludeLiteral records the directive and never opens the target.
	IncludeLiteral IncludeResolution = "literal"
	// IncludeRecursive records the directive and inlines the target's
	// records, guarding against include cycles.
	IncludeRecursive IncludeResolution = "recursive"
)

// Encoding names the character set DAT files are read or written in.
type Encoding string

const (
	// EncodingLatin1 maps every byte to a rune, so decoding never fails.
	EncodingLatin1 Encoding = "latin1"
	// EncodingUTF8 substitutes U+FFFD for invalid byte sequences.
	EncodingUTF8 Encoding = "utf8"
)

// ParseImportMode validates a mode name; empty means replace.
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeReplace:
		return ModeReplace, nil
	case ModeUpdate:
		return ModeUpdate, nil
	}
	return "", fmt.Errorf("unknown import mode %q: use replace or update", s)
}

// ParseIncludeResolution validates a strategy name; empty means literal.
func ParseIncludeResolution(s string) (IncludeResolution, error) {
	switch IncludeResolution(strings.ToLower(strings.TrimSpace(s))) {
	case "", IncludeLiteral:
		return IncludeLiteral, nil
	case IncludeRecursive:
		return IncludeRecursive, nil
	}
	return "", fmt.Errorf("unknown include resolution %q: use literal or recursive", s)
}

// ParseEncoding validates an encoding name. Empty returns def.
func ParseEncoding(s string, def Encoding) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "latin1", "latin-1", "iso-8859-1":
		return EncodingLatin1, nil
	case "utf8", "utf-8":
		return EncodingUTF8, nil
	}
	return "", fmt.Errorf("unknown encoding %q: use latin1 or utf8", s)
}

// ImportConfig holds settings for reading a DAT tree.
type ImportConfig struct {
	// Root is the directory walked for .dat files.
	Root string `json:"root" yaml:"root"`

	// Entities restricts the import to files whose own key is listed.
	// Empty imports everything.
	Entities []string `json:"entities,omitempty" yaml:"entities,omitempty"`

	// Mode is replace or update.
	Mode ImportMode `json:"mode" yaml:"mode"`

	// Include is literal or recursive.
	Include IncludeResolution `json:"include" yaml:"include"`

	// Encoding is the source character set (default latin1).
	Encoding Encoding `json:"encoding" yaml:"encoding"`
}

// ExportConfig holds settings for regenerating DAT files.
type ExportConfig struct {
	// Dest is the directory files are written under, mirroring each origin.
	Dest string `json:"dest" yaml:"dest"`

	// Entities restricts the export to the listed entities. Empty exports all.
	Entities []string `json:"entities,omitempty" yaml:"entities,omitempty"`

	// Encoding is the output character set (default utf8).
	Encoding Encoding `json:"encoding" yaml:"encoding"`
}

// WorkbookConfig locates the editable table store.
type WorkbookConfig struct {
	// Path is a .yaml/.yml workbook file or a SQLite database.
	Path string `json:"path" yaml:"path"`
}

// Config groups all settings.
type Config struct {
	Import   ImportConfig   `json:"import" yaml:"import"`
	Export   ExportConfig   `json:"export" yaml:"export"`
	Workbook WorkbookConfig `json:"workbook" yaml:"workbook"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Import: ImportConfig{
			Mode:     ModeReplace,
			Include:  IncludeLiteral,
			Encoding: EncodingLatin1,
		},
		Export: ExportConfig{
			Encoding: EncodingUTF8,
		},
		Workbook: WorkbookConfig{
			Path: "sage-workbook.db",
		},
	}
}
