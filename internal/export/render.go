// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"strings"

	"github.com/pdiddy/sage-dat/pkg/types"
)

// RenderFile renders recs as one DAT file: rendered records separated by a
// blank line, ending in a single newline.
func RenderFile(recs []types.Record) string {
	blocks := make([]string, 0, len(recs))
	for _, r := range recs {
		if text, ok := RenderRecord(r); ok {
			blocks = append(blocks, text)
		}
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// RenderRecord returns the DAT text of r without a trailing newline. ok is
// false when r produces no output: an include without a target, or a block
// without attributes.
func RenderRecord(r types.Record) (text string, ok bool) {
	switch v := r.(type) {
	case types.IncludeActive:
		if v.Target == "" {
			return "", false
		}
		return "#include " + v.Target, true
	case types.IncludeCommented:
		if v.Target == "" {
			return "", false
		}
		return ";#include " + v.Target, true
	case types.PlainComment:
		return ";" + v.Text, true
	case types.ActiveBlock:
		return renderBlock(v.EntityType, v.Attributes, false)
	case types.CommentedBlock:
		return renderBlock(v.EntityType, v.Attributes, true)
	}
	panic(fmt.Sprintf("export: unhandled record type %T", r))
}

func renderBlock(entityType string, attrs *types.Attributes, commented bool) (string, bool) {
	lines := []string{strings.ToUpper(entityType)}
	for _, k := range attrs.Keys() {
		if v, _ := attrs.Get(k); v != "" {
			lines = append(lines, "\t"+k+" = "+v)
		}
	}
	if len(lines) == 1 {
		return "", false
	}
	if commented {
		for i, l := range lines {
			lines[i] = ";" + l
		}
	}
	return strings.Join(lines, "\n"), true
}
