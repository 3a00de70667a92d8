// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data shared by the DAT codec stages: the record
// variants produced by the parser, the table shape consumed by the
// exporter, configuration and the error taxonomy.
package types

import (
	"path/filepath"
	"strings"
)

// Kind identifies a record variant.
type Kind int

const (
	KindActiveBlock Kind = iota + 1
	KindCommentedBlock
	KindIncludeActive
	KindIncludeCommented
	KindPlainComment
)

// ControlCode is the single-character row tag used in the table projection.
type ControlCode string

const (
	CodeActiveBlock      ControlCode = "x"
	CodeCommentedBlock   ControlCode = "c"
	CodePlainComment     ControlCode = "n"
	CodeIgnore           ControlCode = "q"
	CodeInclude          ControlCode = "i"
	CodeIncludeCommented ControlCode = "u"
)

// Code returns the control code that represents records of this kind.
func (k Kind) Code() ControlCode {
	switch k {
	case KindActiveBlock:
		return CodeActiveBlock
	case KindCommentedBlock:
		return CodeCommentedBlock
	case KindIncludeActive:
		return CodeInclude
	case KindIncludeCommented:
		return CodeIncludeCommented
	case KindPlainComment:
		return CodePlainComment
	}
	return ""
}

func (k Kind) String() string {
	switch k {
	case KindActiveBlock:
		return "active-block"
	case KindCommentedBlock:
		return "commented-block"
	case KindIncludeActive:
		return "include"
	case KindIncludeCommented:
		return "commented-include"
	case KindPlainComment:
		return "comment"
	}
	return "unknown"
}

// Record is one unit of parsed DAT content. The set of implementations is
// closed: ActiveBlock, CommentedBlock, IncludeActive, IncludeCommented and
// PlainComment.
type Record interface {
	Kind() Kind
	// Origin is the path, relative to the import root, of the source file.
	Origin() string
	record()
}

// ActiveBlock is a live entity definition.
type ActiveBlock struct {
	EntityType string
	Attributes *Attributes
	Source     string
}

// CommentedBlock is an entity definition disabled with leading semicolons.
type CommentedBlock struct {
	EntityType string
	Attributes *Attributes
	Source     string
}

// IncludeActive is a #include directive, kept literally.
type IncludeActive struct {
	Target string
	Source string
}

// IncludeCommented is a ;#include directive, kept literally.
type IncludeCommented struct {
	Target string
	Source string
}

// PlainComment is a comment line that does not open a block.
type PlainComment struct {
	Text   string
	Source string
}

func (ActiveBlock) Kind() Kind      { return KindActiveBlock }
func (CommentedBlock) Kind() Kind   { return KindCommentedBlock }
func (IncludeActive) Kind() Kind    { return KindIncludeActive }
func (IncludeCommented) Kind() Kind { return KindIncludeCommented }
func (PlainComment) Kind() Kind     { return KindPlainComment }

func (r ActiveBlock) Origin() string      { return r.Source }
func (r CommentedBlock) Origin() string   { return r.Source }
func (r IncludeActive) Origin() string    { return r.Source }
func (r IncludeCommented) Origin() string { return r.Source }
func (r PlainComment) Origin() string     { return r.Source }

func (ActiveBlock) record()      {}
func (CommentedBlock) record()   {}
func (IncludeActive) record()    {}
func (IncludeCommented) record() {}
func (PlainComment) record()     {}

// FileKey derives the entity key of a file from its path: the lower-cased
// basename without extension.
func FileKey(path string) string {
	base := filepath.Base(filepath.FromSlash(path))
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// EntityKey returns the store key a record is grouped under. Blocks group by
// their entity type; includes and comments group by the file they came from.
func EntityKey(r Record) string {
	switch v := r.(type) {
	case ActiveBlock:
		return strings.ToLower(v.EntityType)
	case CommentedBlock:
		return strings.ToLower(v.EntityType)
	default:
		return FileKey(r.Origin())
	}
}

// Attributes is a key/value mapping that remembers first-seen key order.
// Setting an existing key replaces its value in place.
type Attributes struct {
	keys   []string
	values map[string]string
}

// NewAttributes returns an empty attribute set.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]string)}
}

// Set records key=value.
func (a *Attributes) Set(key, value string) {
	if a.values == nil {
		a.values = make(map[string]string)
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Get returns the value for key.
func (a *Attributes) Get(key string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a.values[key]
	return v, ok
}

// Keys returns the keys in first-seen order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Len returns the number of distinct keys.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Clone returns an independent copy.
func (a *Attributes) Clone() *Attributes {
	c := NewAttributes()
	if a == nil {
		return c
	}
	for _, k := range a.keys {
		c.Set(k, a.values[k])
	}
	return c
}
