package htmlutil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHTML = `
<html lang="pl-PL"><head>
  <title>Strona główna</title>
  <style>body { color: red }</style>
  <script>var x = "not text";</script>
</head>
<body>
  <h1>Witamy</h1>
  <p>W Szczebrzeszynie   chrząszcz
     brzmi w trzcinie</p>
  <!-- komentarz -->
  <noscript>Włącz JavaScript</noscript>
  <div>Pierwszy<span> blok</span></div>
</body></html>
`

func TestVisibleText(t *testing.T) {
	doc, err := LoadHTMLString(testHTML)
	require.NoError(t, err)

	got := VisibleText(doc)
	assert.Equal(t, "Strona główna\nWitamy\nW Szczebrzeszynie chrząszcz brzmi w trzcinie\nPierwszy blok", got)
}

func TestDeclaredLang(t *testing.T) {
	tests := []struct {
		html string
		want string
	}{
		{testHTML, "pl"},
		{`<html lang="EN"><body></body></html>`, "en"},
		{`<html lang="pt_BR"></html>`, "pt"},
		{`<html><body>x</body></html>`, ""},
	}
	for _, tt := range tests {
		doc, err := LoadHTMLString(tt.html)
		require.NoError(t, err)
		assert.Equal(t, tt.want, DeclaredLang(doc))
	}
}

func TestLoadHTMLCharset(t *testing.T) {
	// "gęś" in windows-1250, declared by a meta tag only.
	raw := []byte("<html><head><meta charset=\"windows-1250\"></head><body><p>g\xea\x9c</p></body></html>")
	doc, err := LoadHTMLCharset(bytes.NewReader(raw), "")
	require.NoError(t, err)
	assert.Equal(t, "gęś", VisibleText(doc))
}

func TestIsHTML(t *testing.T) {
	assert.True(t, IsHTML("text/html; charset=utf-8"))
	assert.True(t, IsHTML("page.HTM"))
	assert.True(t, IsHTML("application/xhtml+xml"))
	assert.False(t, IsHTML("text/plain"))
	assert.False(t, IsHTML("notes.txt"))
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte("<p>caf\xe9</p>"))
	}))
	defer srv.Close()

	page, err := Fetch(srv.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, "<p>café</p>", string(page.Body))
	assert.True(t, IsHTML(page.ContentType))

	_, err = Fetch(srv.URL + "/missing")
	assert.Error(t, err)
}
