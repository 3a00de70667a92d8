// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Reserved column headers of an entity table. Every other column holds one
// attribute key.
const (
	ColumnOrigin  = "Origin"
	ColumnControl = "Control"
	ColumnAux     = "Aux"
)

// ReservedColumns lists the structural columns in their canonical order.
var ReservedColumns = []string{ColumnOrigin, ColumnControl, ColumnAux}

// IsReservedColumn reports whether name is one of the structural columns.
func IsReservedColumn(name string) bool {
	for _, c := range ReservedColumns {
		if c == name {
			return true
		}
	}
	return false
}

// Table is the row/column view of one entity, the shape an editing layer
// (spreadsheet, workbook file) works with.
type Table struct {
	// Entity is the entity key, e.g. "pds". Its upper-cased form is the block
	// header written on export.
	Entity string `json:"entity" yaml:"entity"`

	// Header names each column. Column order is not significant.
	Header []string `json:"header" yaml:"header"`

	// Rows hold one cell per header column; short rows are padded with
	// empty cells when read.
	Rows [][]string `json:"rows" yaml:"rows"`
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// StructuralColumns locates the three reserved columns. Missing lists the
// names that are absent from the header.
type StructuralColumns struct {
	Origin  int
	Control int
	Aux     int
	Missing []string
}

// Structural resolves the reserved column positions of t.
func (t Table) Structural() StructuralColumns {
	sc := StructuralColumns{
		Origin:  t.ColumnIndex(ColumnOrigin),
		Control: t.ColumnIndex(ColumnControl),
		Aux:     t.ColumnIndex(ColumnAux),
	}
	if sc.Origin < 0 {
		sc.Missing = append(sc.Missing, ColumnOrigin)
	}
	if sc.Control < 0 {
		sc.Missing = append(sc.Missing, ColumnControl)
	}
	if sc.Aux < 0 {
		sc.Missing = append(sc.Missing, ColumnAux)
	}
	return sc
}

// Cell returns row[i], or "" when the row is too short.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
