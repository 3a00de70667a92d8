// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workbook projects records onto entity tables (one row per record,
// one column per attribute key) and persists those tables so they can be
// edited between an import and an export.
package workbook

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/sage-dat/pkg/types"
)

// Source is a record store read by entity key.
type Source interface {
	Keys() []string
	Records(key string) []types.Record
}

// FromStore builds one table per entity. With no entities listed, every key
// of s is projected in store order.
func FromStore(s Source, entities []string) []types.Table {
	if len(entities) == 0 {
		entities = s.Keys()
	}
	tables := make([]types.Table, 0, len(entities))
	for _, e := range entities {
		recs := s.Records(e)
		if len(recs) == 0 {
			continue
		}
		tables = append(tables, FromRecords(e, recs))
	}
	return tables
}

// FromRecords lays out recs as a table. The header is the reserved columns
// followed by every attribute key in first-seen order. An attribute named
// like a reserved column cannot be represented; it is dropped with a warning.
func FromRecords(entity string, recs []types.Record) types.Table {
	header := append([]string(nil), types.ReservedColumns...)
	col := make(map[string]int)
	shadowed := make(map[string]bool)
	for _, r := range recs {
		for _, k := range blockAttributes(r).Keys() {
			if types.IsReservedColumn(k) {
				if !shadowed[k] {
					shadowed[k] = true
					log.Warn().Str("entity", entity).Str("attribute", k).Str("origin", r.Origin()).
						Msg("Attribute shares a reserved column name and is left out of the table")
				}
				continue
			}
			if _, ok := col[k]; ok {
				continue
			}
			col[k] = len(header)
			header = append(header, k)
		}
	}

	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		row := make([]string, len(header))
		row[0] = r.Origin()
		row[1] = string(r.Kind().Code())

		switch v := r.(type) {
		case types.IncludeActive:
			row[2] = v.Target
		case types.IncludeCommented:
			row[2] = v.Target
		case types.PlainComment:
			row[2] = v.Text
		case types.ActiveBlock, types.CommentedBlock:
			attrs := blockAttributes(r)
			for _, k := range attrs.Keys() {
				if i, ok := col[k]; ok {
					row[i], _ = attrs.Get(k)
				}
			}
		}
		rows = append(rows, row)
	}

	return types.Table{Entity: strings.ToLower(entity), Header: header, Rows: rows}
}

func blockAttributes(r types.Record) *types.Attributes {
	switch v := r.(type) {
	case types.ActiveBlock:
		return v.Attributes
	case types.CommentedBlock:
		return v.Attributes
	}
	return nil
}

// ToRecords reads the rows of t back into records. Rows without an origin
// or control code, rows marked with the ignore code, and rows too short to
// reach the structural columns are skipped. A table lacking a structural
// column yields *types.MissingStructuralColumnsError.
func ToRecords(t types.Table) ([]types.Record, error) {
	sc := t.Structural()
	if len(sc.Missing) > 0 {
		return nil, &types.MissingStructuralColumnsError{Entity: t.Entity, Missing: sc.Missing}
	}
	minLen := max(sc.Origin, sc.Control, sc.Aux) + 1
	entityType := strings.ToUpper(t.Entity)

	var recs []types.Record
	for i, row := range t.Rows {
		if len(row) < minLen {
			continue
		}
		origin := row[sc.Origin]
		code := types.ControlCode(strings.ToLower(strings.TrimSpace(row[sc.Control])))
		if origin == "" || code == "" || code == types.CodeIgnore {
			continue
		}
		data := row[sc.Aux]

		switch code {
		case types.CodeActiveBlock:
			recs = append(recs, types.ActiveBlock{EntityType: entityType, Attributes: rowAttributes(t.Header, row), Source: origin})
		case types.CodeCommentedBlock:
			recs = append(recs, types.CommentedBlock{EntityType: entityType, Attributes: rowAttributes(t.Header, row), Source: origin})
		case types.CodeInclude:
			recs = append(recs, types.IncludeActive{Target: data, Source: origin})
		case types.CodeIncludeCommented:
			recs = append(recs, types.IncludeCommented{Target: data, Source: origin})
		case types.CodePlainComment:
			recs = append(recs, types.PlainComment{Text: data, Source: origin})
		default:
			log.Debug().Str("entity", t.Entity).Int("row", i+1).Str("code", string(code)).Msg("Unknown control code, row skipped")
		}
	}
	return recs, nil
}

// rowAttributes collects the non-empty attribute cells of row in header
// order.
func rowAttributes(header, row []string) *types.Attributes {
	attrs := types.NewAttributes()
	for i, h := range header {
		if h == "" || types.IsReservedColumn(h) {
			continue
		}
		if v := types.Cell(row, i); v != "" {
			attrs.Set(h, v)
		}
	}
	return attrs
}
