// Package corpus reads labelled evaluation corpora.
//
// A corpus is a UTF-8 text file with one document per line:
//
//	lang<TAB>text
//	lang<TAB>url<TAB>text
//
// The optional URL column groups documents by source domain. Blank lines
// and lines starting with '#' are skipped. Files ending in .gz are
// decompressed transparently.
package corpus

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Document is one labelled line of a corpus.
type Document struct {
	Lang string
	URL  string
	Text string
	Line int
}

const maxLine = 16 << 20

// Read parses a corpus from r.
func Read(r io.Reader) ([]Document, error) {
	var docs []Document
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("line %d: expected a tab on every line", lineNo)
		}
		doc := Document{Lang: strings.TrimSpace(parts[0]), Line: lineNo}
		if len(parts) == 3 && looksLikeURL(parts[1]) {
			doc.URL = parts[1]
			doc.Text = parts[2]
		} else {
			doc.Text = strings.Join(parts[1:], "\t")
		}
		if doc.Lang == "" {
			return nil, fmt.Errorf("line %d: empty language code", lineNo)
		}
		docs = append(docs, doc)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Load reads the corpus stored at path.
func Load(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer func() { _ = gr.Close() }()
		r = gr
	}
	docs, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// Languages returns the distinct language codes of docs, sorted.
func Languages(docs []Document) []string {
	seen := make(map[string]bool)
	var langs []string
	for _, d := range docs {
		if !seen[d.Lang] {
			seen[d.Lang] = true
			langs = append(langs, d.Lang)
		}
	}
	sort.Strings(langs)
	return langs
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Domain extracts the registrable domain name of a URL without its public
// suffix ("example" for https://foo.example.co.uk/x).
func Domain(rawURL string) string {
	host := rawURL
	if idx := strings.Index(host, "://"); idx >= 0 {
		host = host[idx+3:]
	}
	if idx := strings.Index(host, "/"); idx >= 0 {
		host = host[:idx]
	}
	if idx := strings.Index(host, ":"); idx >= 0 {
		host = host[:idx]
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	if idx := strings.Index(domain, "."); idx >= 0 {
		return domain[:idx]
	}
	return domain
}
