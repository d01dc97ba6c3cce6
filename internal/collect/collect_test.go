package collect

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happyhackingspace/langid/internal/corpus"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/pl", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "langid-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html lang="pl"><body><p>W Szczebrzeszynie</p><p>chrząszcz brzmi w trzcinie</p></body></html>`))
	})
	mux.HandleFunc("/latin2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-2")
		_, _ = w.Write([]byte("<html><body><p>Za\xbf\xf3\xb3\xe6 g\xea\xb6l\xb1 ja\xbc\xf1</p></body></html>"))
	})
	mux.HandleFunc("/nolang", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>Some text without a declared language</p></body></html>`))
	})
	mux.HandleFunc("/short", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html lang="en"><body>hi</body></html>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCollect(t *testing.T) {
	srv := newServer(t)
	c := &Collector{Client: srv.Client(), UserAgent: "langid-test", MinChars: 10}
	seeds := []Seed{
		{URL: srv.URL + "/pl"},
		{URL: srv.URL + "/latin2", Lang: "pl"},
		{URL: srv.URL + "/nolang"},
		{URL: srv.URL + "/short"},
		{URL: srv.URL + "/missing", Lang: "en"},
		{URL: srv.URL + "/skipped", Lang: "en"},
	}

	var buf bytes.Buffer
	n, err := c.Collect(context.Background(), seeds, map[string]bool{srv.URL + "/skipped": true}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	docs, err := corpus.Read(&buf)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, corpus.Document{Lang: "pl", URL: srv.URL + "/pl", Text: "W Szczebrzeszynie chrząszcz brzmi w trzcinie", Line: 1}, docs[0])
	assert.Equal(t, "Zażółć gęślą jaźń", docs[1].Text)
}

func TestCollectMaxPagesAndTruncation(t *testing.T) {
	srv := newServer(t)
	c := &Collector{Client: srv.Client(), UserAgent: "langid-test", MaxPages: 1, MaxBytes: 17}
	var buf bytes.Buffer
	n, err := c.Collect(context.Background(), []Seed{{URL: srv.URL + "/pl"}, {URL: srv.URL + "/pl", Lang: "xx"}}, nil, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "pl\t"+srv.URL+"/pl\tW Szczebrzeszynie\n", buf.String())
}

func TestCollectCancelled(t *testing.T) {
	srv := newServer(t)
	c := &Collector{Client: srv.Client(), Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Collect(ctx, []Seed{{URL: srv.URL + "/pl"}}, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadSeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.jsonl")
	content := strings.Join([]string{
		`# seeds`,
		`{"url": "https://example.com/", "lang": "en"}`,
		``,
		`not json`,
		`{"lang": "de"}`,
		`{"url": "https://example.de/"}`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	seeds, err := LoadSeeds(path)
	require.NoError(t, err)
	assert.Equal(t, []Seed{
		{URL: "https://example.com/", Lang: "en"},
		{URL: "https://example.de/"},
	}, seeds)
}

func TestSeen(t *testing.T) {
	dir := t.TempDir()
	seen, err := Seen(filepath.Join(dir, "missing.tsv"))
	require.NoError(t, err)
	assert.Empty(t, seen)

	path := filepath.Join(dir, "corpus.tsv")
	require.NoError(t, os.WriteFile(path, []byte("en\thttps://a.example/\ttext\nde\tno url here\n"), 0o644))
	seen, err = Seen(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"https://a.example/": true}, seen)
}
