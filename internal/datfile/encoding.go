// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package datfile

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/pdiddy/sage-dat/pkg/types"
)

// decoder returns a decoder that never fails: latin-1 maps every byte, and
// the UTF-8 decoder substitutes U+FFFD for invalid sequences.
func decoder(enc types.Encoding) *encoding.Decoder {
	if enc == types.EncodingUTF8 {
		return unicode.UTF8BOM.NewDecoder()
	}
	return charmap.ISO8859_1.NewDecoder()
}

// NewReader wraps r so that it yields UTF-8 text decoded from enc.
func NewReader(r io.Reader, enc types.Encoding) io.Reader {
	return transform.NewReader(r, decoder(enc))
}

// ReadLines reads the whole file at path and splits it into lines with line
// terminators removed. Undecodable bytes are substituted, never reported.
func ReadLines(path string, enc types.Encoding) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(NewReader(f, enc))
	if err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	return SplitLines(string(data)), nil
}

// SplitLines splits text into lines ending in "\n", "\r\n" or a bare "\r".
// A final line break does not produce an extra empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// Encode converts UTF-8 text to enc. Runes latin-1 cannot represent are
// replaced rather than rejected.
func Encode(text string, enc types.Encoding) ([]byte, error) {
	if enc != types.EncodingLatin1 {
		return []byte(text), nil
	}
	out, err := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encoding latin1: %w", err)
	}
	return out, nil
}
