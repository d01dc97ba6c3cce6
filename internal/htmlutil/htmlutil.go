// Package htmlutil extracts the human-readable text of HTML documents.
package htmlutil

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// LoadHTML parses HTML from r into a goquery Document. r must yield UTF-8.
func LoadHTML(r io.Reader) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(r)
}

// LoadHTMLString parses HTML string into a goquery Document.
func LoadHTMLString(htmlStr string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
}

// LoadHTMLCharset parses HTML bytes in an unknown character set, using the
// Content-Type header value (may be empty), a byte order mark or a <meta>
// declaration to convert them to UTF-8 first.
func LoadHTMLCharset(r io.Reader, contentType string) (*goquery.Document, error) {
	utf8r, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("detect charset: %w", err)
	}
	return goquery.NewDocumentFromReader(utf8r)
}

// DeclaredLang returns the primary subtag of the document's <html lang>
// attribute in lower case ("en" for lang="en-GB"), or "".
func DeclaredLang(doc *goquery.Document) string {
	lang, ok := doc.Find("html").First().Attr("lang")
	if !ok {
		return ""
	}
	lang = strings.TrimSpace(lang)
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	return strings.ToLower(lang)
}

// IsHTML reports whether a Content-Type value or file name denotes HTML.
func IsHTML(contentTypeOrName string) bool {
	s := strings.ToLower(contentTypeOrName)
	return strings.Contains(s, "text/html") || strings.Contains(s, "application/xhtml") ||
		strings.HasSuffix(s, ".html") || strings.HasSuffix(s, ".htm")
}

// Page is a fetched web page converted to UTF-8.
type Page struct {
	URL         string
	ContentType string
	Body        []byte
}

var client = &http.Client{Timeout: 30 * time.Second}

// Fetch downloads url. HTML bodies are converted to UTF-8 according to their
// declared character set; other bodies are returned as received.
func Fetch(url string) (*Page, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch URL: HTTP %d", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	var body io.Reader = resp.Body
	if IsHTML(ct) {
		if body, err = charset.NewReader(resp.Body, ct); err != nil {
			return nil, fmt.Errorf("detect charset: %w", err)
		}
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &Page{URL: url, ContentType: ct, Body: data}, nil
}
