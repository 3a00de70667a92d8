// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package datfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sage-dat/pkg/types"
)

func TestReadLines(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		enc  types.Encoding
		want []string
	}{
		{
			name: "latin1 decodes every byte",
			data: []byte("PDS\n\tDESCR = Subesta\xe7\xe3o\n"),
			enc:  types.EncodingLatin1,
			want: []string{"PDS", "\tDESCR = Subestação"},
		},
		{
			name: "utf8 substitutes invalid bytes",
			data: []byte("A = \xff\xfeok\n"),
			enc:  types.EncodingUTF8,
			want: []string{"A = ��ok"},
		},
		{
			name: "utf8 strips a byte order mark",
			data: []byte("\xef\xbb\xbfPDS\r\n"),
			enc:  types.EncodingUTF8,
			want: []string{"PDS"},
		},
		{
			name: "empty file",
			data: nil,
			enc:  types.EncodingLatin1,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "f.dat")
			require.NoError(t, os.WriteFile(path, tt.data, 0o644))

			got, err := ReadLines(path, tt.enc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitLines_KeepsInnerBlankLines(t *testing.T) {
	assert.Equal(t, []string{"a", "", "b", ""}, SplitLines("a\n\nb\n\n"))
}

func TestSplitLines_LineEndings(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"lf", "PDS\n\tA = 1\n", []string{"PDS", "\tA = 1"}},
		{"crlf", "PDS\r\n\tA = 1\r\n", []string{"PDS", "\tA = 1"}},
		{"bare cr", "PDS\r\tA = 1\r\r;note\r", []string{"PDS", "\tA = 1", "", ";note"}},
		{"mixed", "a\rb\r\nc\nd", []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.text))
		})
	}
}

func TestEncode(t *testing.T) {
	out, err := Encode("Subestação", types.EncodingLatin1)
	require.NoError(t, err)
	assert.Equal(t, []byte("Subesta\xe7\xe3o"), out)

	out, err = Encode("Subestação", types.EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, []byte("Subestação"), out)

	out, err = Encode("x中y", types.EncodingLatin1)
	require.NoError(t, err)
	assert.Len(t, out, 3)
	assert.Equal(t, byte('x'), out[0])
	assert.Equal(t, byte('y'), out[2])
}
