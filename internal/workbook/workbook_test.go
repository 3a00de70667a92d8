// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workbook

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sage-dat/pkg/types"
)

func attrs(kv ...string) *types.Attributes {
	a := types.NewAttributes()
	for i := 0; i+1 < len(kv); i += 2 {
		a.Set(kv[i], kv[i+1])
	}
	return a
}

func sampleRecords() []types.Record {
	return []types.Record{
		types.ActiveBlock{EntityType: "PDS", Attributes: attrs("ID", "P1", "NOME", "Bus"), Source: "pds.dat"},
		types.PlainComment{Text: "note", Source: "pds.dat"},
		types.CommentedBlock{EntityType: "PDS", Attributes: attrs("ID", "P2", "TIPO", "A"), Source: "sub/pds.dat"},
		types.IncludeActive{Target: "other.dat", Source: "pds.dat"},
		types.IncludeCommented{Target: "old.dat", Source: "pds.dat"},
	}
}

func TestFromRecords(t *testing.T) {
	tbl := FromRecords("PDS", sampleRecords())

	assert.Equal(t, "pds", tbl.Entity)
	assert.Equal(t, []string{"Origin", "Control", "Aux", "ID", "NOME", "TIPO"}, tbl.Header)
	assert.Equal(t, [][]string{
		{"pds.dat", "x", "", "P1", "Bus", ""},
		{"pds.dat", "n", "note", "", "", ""},
		{"sub/pds.dat", "c", "", "P2", "", "A"},
		{"pds.dat", "i", "other.dat", "", "", ""},
		{"pds.dat", "u", "old.dat", "", "", ""},
	}, tbl.Rows)
}

func TestFromRecords_WarnsOnReservedAttribute(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	recs := []types.Record{
		types.ActiveBlock{EntityType: "PDS", Attributes: attrs("ID", "1", "Origin", "x"), Source: "pds.dat"},
		types.ActiveBlock{EntityType: "PDS", Attributes: attrs("Origin", "y"), Source: "pds.dat"},
	}
	tbl := FromRecords("pds", recs)

	assert.Equal(t, []string{"Origin", "Control", "Aux", "ID"}, tbl.Header)
	assert.Equal(t, "pds.dat", tbl.Rows[0][0])
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte(`"attribute":"Origin"`)))
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestToRecords_RoundTrip(t *testing.T) {
	recs, err := ToRecords(FromRecords("pds", sampleRecords()))
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), recs)
}

func TestToRecords_SkipsRows(t *testing.T) {
	tbl := types.Table{
		Entity: "pds",
		Header: []string{"Control", "Origin", "Aux", "A"},
		Rows: [][]string{
			{"X", "pds.dat", "", "1"},
			{"q", "pds.dat", "", "2"},
			{"x", "", "", "3"},
			{"", "pds.dat", "", "4"},
			{"z", "pds.dat", "", "5"},
			{"x", "pds.dat"},
		},
	}

	recs, err := ToRecords(tbl)
	require.NoError(t, err)
	assert.Equal(t, []types.Record{
		types.ActiveBlock{EntityType: "PDS", Attributes: attrs("A", "1"), Source: "pds.dat"},
	}, recs)
}

func TestToRecords_MissingColumns(t *testing.T) {
	_, err := ToRecords(types.Table{Entity: "pds", Header: []string{"Origin", "A"}})

	var colErr *types.MissingStructuralColumnsError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, "pds", colErr.Entity)
	assert.Equal(t, []string{"Control", "Aux"}, colErr.Missing)
}

type memSource map[string][]types.Record

func (m memSource) Keys() []string {
	return []string{"pds", "empty", "cgs"}
}

func (m memSource) Records(key string) []types.Record { return m[key] }

func TestFromStore(t *testing.T) {
	src := memSource{
		"pds": {types.PlainComment{Text: "a", Source: "pds.dat"}},
		"cgs": {types.PlainComment{Text: "b", Source: "cgs.dat"}},
	}

	all := FromStore(src, nil)
	require.Len(t, all, 2)
	assert.Equal(t, "pds", all[0].Entity)
	assert.Equal(t, "cgs", all[1].Entity)

	one := FromStore(src, []string{"cgs"})
	require.Len(t, one, 1)
	assert.Equal(t, "cgs", one[0].Entity)
}

func TestSelect(t *testing.T) {
	tables := []types.Table{{Entity: "pds"}, {Entity: "cgs"}, {Entity: "tac"}}
	assert.Equal(t, tables, Select(tables, nil))
	assert.Equal(t, []types.Table{{Entity: "pds"}, {Entity: "tac"}}, Select(tables, []string{"TAC", "pds"}))
}

func TestWorkbookBackends(t *testing.T) {
	for _, name := range []string{"book.yaml", "book.db"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			wb, err := Open(path)
			require.NoError(t, err)
			t.Cleanup(func() { wb.Close() })

			empty, err := wb.Load()
			require.NoError(t, err)
			assert.Empty(t, empty)

			pds := FromRecords("pds", sampleRecords())
			cgs := types.Table{Entity: "cgs", Header: types.ReservedColumns, Rows: [][]string{{"cgs.dat", "n", "hi"}}}
			require.NoError(t, wb.Save([]types.Table{pds, cgs}))

			// Replacing pds keeps its position ahead of cgs.
			pds2 := types.Table{Entity: "pds", Header: types.ReservedColumns, Rows: [][]string{{"pds.dat", "n", "only"}}}
			require.NoError(t, wb.Save([]types.Table{pds2}))

			got, err := wb.Load()
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, pds2, got[0])
			assert.Equal(t, cgs, got[1])
		})
	}
}

func TestSQLiteStore_RecordsRuns(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "wb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Save(nil))
	first := s.LastRun
	require.NoError(t, s.Save(nil))

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, s.LastRun)
	n, err := s.Runs()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}
