// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindCodes(t *testing.T) {
	tests := []struct {
		record Record
		code   ControlCode
	}{
		{ActiveBlock{}, CodeActiveBlock},
		{CommentedBlock{}, CodeCommentedBlock},
		{IncludeActive{}, CodeInclude},
		{IncludeCommented{}, CodeIncludeCommented},
		{PlainComment{}, CodePlainComment},
	}
	seen := map[ControlCode]bool{}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.record.Kind().Code(), tt.record.Kind().String())
		seen[tt.code] = true
	}
	assert.Len(t, seen, 5)
	assert.False(t, seen[CodeIgnore])
}

func TestFileKey(t *testing.T) {
	tests := map[string]string{
		"pds.dat":           "pds",
		"sub/dir/CGS.DAT":   "cgs",
		"noext":             "noext",
		"area/Tr.Linha.dat": "tr.linha",
	}
	for path, want := range tests {
		assert.Equal(t, want, FileKey(path), path)
	}
}

func TestEntityKey(t *testing.T) {
	assert.Equal(t, "pds", EntityKey(ActiveBlock{EntityType: "PDS", Source: "other.dat"}))
	assert.Equal(t, "cgs", EntityKey(CommentedBlock{EntityType: "CGS", Source: "other.dat"}))
	assert.Equal(t, "other", EntityKey(IncludeActive{Target: "x.dat", Source: "sub/other.dat"}))
	assert.Equal(t, "other", EntityKey(IncludeCommented{Source: "other.dat"}))
	assert.Equal(t, "other", EntityKey(PlainComment{Source: "OTHER.dat"}))
}

func TestAttributes(t *testing.T) {
	a := NewAttributes()
	a.Set("B", "1")
	a.Set("A", "2")
	a.Set("B", "3")

	assert.Equal(t, []string{"B", "A"}, a.Keys())
	assert.Equal(t, 2, a.Len())
	v, ok := a.Get("B")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	c := a.Clone()
	c.Set("C", "4")
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, []string{"B", "A", "C"}, c.Keys())

	var zero Attributes
	zero.Set("K", "v")
	assert.Equal(t, []string{"K"}, zero.Keys())

	var nilAttrs *Attributes
	assert.Equal(t, 0, nilAttrs.Len())
	assert.Nil(t, nilAttrs.Keys())
	_, ok = nilAttrs.Get("K")
	assert.False(t, ok)
	assert.Equal(t, 0, nilAttrs.Clone().Len())
}

func TestStructural(t *testing.T) {
	sc := Table{Header: []string{"A", "Aux", "Origin", "Control"}}.Structural()
	assert.Equal(t, StructuralColumns{Origin: 2, Control: 3, Aux: 1}, sc)

	sc = Table{Header: []string{"Control", "origin"}}.Structural()
	assert.Equal(t, []string{ColumnOrigin, ColumnAux}, sc.Missing)

	assert.True(t, IsReservedColumn("Aux"))
	assert.False(t, IsReservedColumn("aux"))
	assert.Equal(t, "", Cell([]string{"a"}, 3))
	assert.Equal(t, "a", Cell([]string{"a"}, 0))
}

func TestParseOptions(t *testing.T) {
	mode, err := ParseImportMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeReplace, mode)
	mode, err = ParseImportMode(" Update ")
	require.NoError(t, err)
	assert.Equal(t, ModeUpdate, mode)
	_, err = ParseImportMode("merge")
	assert.Error(t, err)

	inc, err := ParseIncludeResolution("RECURSIVE")
	require.NoError(t, err)
	assert.Equal(t, IncludeRecursive, inc)
	_, err = ParseIncludeResolution("deep")
	assert.Error(t, err)

	tests := []struct {
		in   string
		def  Encoding
		want Encoding
	}{
		{"", EncodingLatin1, EncodingLatin1},
		{"", EncodingUTF8, EncodingUTF8},
		{"ISO-8859-1", EncodingUTF8, EncodingLatin1},
		{"UTF-8", EncodingLatin1, EncodingUTF8},
	}
	for _, tt := range tests {
		got, err := ParseEncoding(tt.in, tt.def)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err = ParseEncoding("cp1252", EncodingUTF8)
	assert.Error(t, err)
}

func TestErrors(t *testing.T) {
	err := error(&FileReadError{Path: "a.dat", Err: fs.ErrPermission})
	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.Equal(t, "reading a.dat: permission denied", err.Error())

	assert.Equal(t, "invalid root /x: not a directory", (&InvalidRootError{Path: "/x"}).Error())
	assert.Equal(t, `entity "pds" is missing column(s) Control, Aux`,
		(&MissingStructuralColumnsError{Entity: "pds", Missing: []string{"Control", "Aux"}}).Error())
}
