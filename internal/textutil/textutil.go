// Package textutil prepares raw input for language identification.
package textutil

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/unicode/norm"
)

// Decode converts data in the named character set to UTF-8. Names follow the
// WHATWG encoding labels ("latin1", "windows-1250", "shift_jis", ...). An
// empty name or any UTF-8 label returns data unchanged.
func Decode(data []byte, charset string) ([]byte, error) {
	if charset == "" {
		return data, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("charset %q: %w", charset, err)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return data, nil
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", charset, err)
	}
	return out, nil
}

// Truncate shortens text to at most maxBytes bytes without splitting a UTF-8
// sequence. maxBytes <= 0 means no limit.
func Truncate(text string, maxBytes int) string {
	if maxBytes <= 0 || len(text) <= maxBytes {
		return text
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// TruncateBytes is Truncate for byte slices.
func TruncateBytes(p []byte, maxBytes int) []byte {
	if maxBytes <= 0 || len(p) <= maxBytes {
		return p
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(p[cut]) {
		cut--
	}
	return p[:cut]
}

var (
	newlineRe    = regexp.MustCompile(`[\n\r]`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// NormalizeWhitespaces replaces newlines and multiple whitespace with a single space.
func NormalizeWhitespaces(text string) string {
	text = newlineRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(text, " "))
}

// NFC returns text in Unicode normalization form C, so that precomposed and
// decomposed spellings of the same letter produce the same bytes.
func NFC(text string) string {
	return norm.NFC.String(text)
}
