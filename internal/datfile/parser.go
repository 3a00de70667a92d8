// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package datfile reads SAGE DAT configuration files into records.
//
// A DAT file is a sequence of lines. A line naming an entity type that the
// directory's vocabulary knows opens a block whose following KEY = VALUE
// lines are its attributes. The same block prefixed with ';' on every line
// is a commented block. #include and ;#include lines reference other files
// and are kept literally. Any other ';' line is a plain comment; everything
// else is dropped.
package datfile

import (
	"regexp"
	"strings"

	"github.com/pdiddy/sage-dat/internal/vocab"
	"github.com/pdiddy/sage-dat/pkg/types"
)

var (
	// commentedIncludePattern matches ";#include path", capturing the path.
	commentedIncludePattern = regexp.MustCompile(`(?i)^\s*;\s*#\s*include\s+(.*)`)
	// includePattern matches "#include path", capturing the path.
	includePattern = regexp.MustCompile(`(?i)^\s*#\s*include\s+(.*)`)
	// commentHeaderPattern captures the identifier at the start of a
	// comment body.
	commentHeaderPattern = regexp.MustCompile(`(?i)^\s*([A-Z_]+)`)
)

// Parse classifies lines against v and returns the records in source order.
// origin is stored on every record. Parse never fails: lines that match no
// rule produce nothing.
func Parse(lines []string, origin string, v vocab.Vocabulary) []types.Record {
	p := &parser{lines: lines, origin: origin, vocab: v}
	for p.pos < len(p.lines) {
		p.next()
	}
	return p.out
}

// ParseFile reads the file at path and parses it. A read failure is
// returned as a *types.FileReadError naming origin.
func ParseFile(path, origin string, v vocab.Vocabulary, enc types.Encoding) ([]types.Record, error) {
	lines, err := ReadLines(path, enc)
	if err != nil {
		return nil, &types.FileReadError{Path: origin, Err: err}
	}
	return Parse(lines, origin, v), nil
}

// parser is a forward-only cursor over the lines of one file.
type parser struct {
	lines  []string
	pos    int
	origin string
	vocab  vocab.Vocabulary
	out    []types.Record
}

func (p *parser) emit(r types.Record) {
	p.out = append(p.out, r)
}

// next consumes one line, plus the body lines of a block it opens.
func (p *parser) next() {
	raw := p.lines[p.pos]
	line := strings.TrimSpace(raw)
	p.pos++

	if line == "" {
		return
	}

	if m := commentedIncludePattern.FindStringSubmatch(raw); m != nil {
		p.emit(types.IncludeCommented{Target: strings.TrimSpace(m[1]), Source: p.origin})
		return
	}
	if m := includePattern.FindStringSubmatch(raw); m != nil {
		p.emit(types.IncludeActive{Target: strings.TrimSpace(m[1]), Source: p.origin})
		return
	}

	if strings.HasPrefix(line, ";") {
		p.comment(line[1:])
		return
	}

	if p.vocab.Contains(line) {
		p.activeBlock(strings.ToUpper(line))
	}
}

// comment handles a ';' line: either the header of a commented block or a
// plain comment.
func (p *parser) comment(body string) {
	m := commentHeaderPattern.FindStringSubmatch(body)
	if m == nil || !p.vocab.Contains(m[1]) {
		p.emit(types.PlainComment{Text: strings.TrimSpace(body), Source: p.origin})
		return
	}

	attrs := types.NewAttributes()
	for p.pos < len(p.lines) {
		next := strings.TrimSpace(p.lines[p.pos])
		if !strings.HasPrefix(next, ";") {
			break
		}
		setAttribute(attrs, next[1:])
		p.pos++
	}

	// Emitted even when empty.
	p.emit(types.CommentedBlock{
		EntityType: strings.ToUpper(m[1]),
		Attributes: attrs,
		Source:     p.origin,
	})
}

// activeBlock collects attribute lines until a blank line, another header,
// a comment or an include.
func (p *parser) activeBlock(entityType string) {
	attrs := types.NewAttributes()
	for p.pos < len(p.lines) {
		raw := p.lines[p.pos]
		next := strings.TrimSpace(raw)
		if next == "" || p.vocab.Contains(next) || strings.HasPrefix(next, ";") || isInclude(raw) {
			break
		}
		setAttribute(attrs, next)
		p.pos++
	}

	// A header without attributes is dropped, unlike a commented one.
	if attrs.Len() == 0 {
		return
	}
	p.emit(types.ActiveBlock{
		EntityType: entityType,
		Attributes: attrs,
		Source:     p.origin,
	})
}

func isInclude(raw string) bool {
	return includePattern.MatchString(raw) || commentedIncludePattern.MatchString(raw)
}

// setAttribute splits text on its first '=' and records the trimmed pair.
// Text without '=' is ignored.
func setAttribute(attrs *types.Attributes, text string) {
	key, value, ok := strings.Cut(text, "=")
	if !ok {
		return
	}
	attrs.Set(strings.TrimSpace(key), strings.TrimSpace(value))
}
