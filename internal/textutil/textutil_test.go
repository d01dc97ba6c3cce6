package textutil

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		charset string
		in      []byte
		want    string
	}{
		{"", []byte("zażółć"), "zażółć"},
		{"utf-8", []byte("zażółć"), "zażółć"},
		{"latin1", []byte{'c', 'a', 'f', 0xE9}, "café"},
		{"windows-1250", []byte{'g', 0xEA, 0x9C}, "gęś"},
	}
	for _, tt := range tests {
		got, err := Decode(tt.in, tt.charset)
		require.NoError(t, err, tt.charset)
		assert.Equal(t, tt.want, string(got), tt.charset)
	}

	_, err := Decode([]byte("x"), "no-such-charset")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 0, "hello"},
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"zażółć", 3, "za"}, // 'ż' is two bytes, cut before it
		{"zażółć", 4, "zaż"},
		{"ą", 1, ""},
	}
	for _, tt := range tests {
		got := Truncate(tt.in, tt.max)
		assert.Equal(t, tt.want, got, "%q/%d", tt.in, tt.max)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, tt.want, string(TruncateBytes([]byte(tt.in), tt.max)))
	}
}

func TestNormalizeWhitespaces(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hello\nworld", "hello world"},
		{"  hello   world  ", "hello world"},
		{"a\r\n\tb", "a b"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeWhitespaces(tt.input), "%q", tt.input)
	}
}

func TestNFC(t *testing.T) {
	decomposed := "e\u0301"
	assert.Equal(t, "\u00e9", NFC(decomposed))
	assert.Equal(t, "plain", NFC("plain"))
}
