// Package collect builds labelled evaluation corpora from web pages.
//
// Seeds are JSON lines naming a URL and, optionally, its language:
//
//	{"url": "https://www.lemonde.fr/", "lang": "fr"}
//	{"url": "https://www.spiegel.de/"}
//
// Seeds without a language take the page's <html lang> declaration. Every
// collected page becomes one "lang<TAB>url<TAB>text" corpus line.
package collect

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/happyhackingspace/langid/internal/corpus"
	"github.com/happyhackingspace/langid/internal/htmlutil"
	"github.com/happyhackingspace/langid/internal/textutil"
)

// Seed is one page to collect.
type Seed struct {
	URL  string `json:"url"`
	Lang string `json:"lang,omitempty"`
}

// HTTPClient is the interface used for HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns a client that tolerates broken TLS setups and follows
// at most five redirects.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
}

// Collector fetches seeds and writes corpus lines.
type Collector struct {
	Client    HTTPClient
	UserAgent string
	Delay     time.Duration // pause between requests
	MinChars  int           // pages with less visible text are skipped
	MaxBytes  int           // visible text is truncated to this many bytes; 0 keeps all
	MaxPages  int           // stop after this many pages; 0 is unlimited

	// Renderer, when set, loads pages in a browser instead of Client.
	Renderer *Renderer
}

const maxBody = 5 << 20

// ErrNoLanguage is returned for pages without a seed or declared language.
var ErrNoLanguage = errors.New("no language given or declared")

// LoadSeeds reads a JSON lines seed file. Blank lines and lines starting with
// # are skipped; invalid lines are logged and skipped.
func LoadSeeds(path string) ([]Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var seeds []Seed
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var s Seed
		if err := json.Unmarshal([]byte(line), &s); err != nil || s.URL == "" {
			slog.Warn("Skipping invalid seed line", "line", line, "error", err)
			continue
		}
		seeds = append(seeds, s)
	}
	return seeds, scanner.Err()
}

// Seen returns the URLs already present in the corpus at path. A missing file
// yields an empty set.
func Seen(path string) (map[string]bool, error) {
	seen := make(map[string]bool)
	docs, err := corpus.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return seen, nil
		}
		return nil, err
	}
	for _, d := range docs {
		if d.URL != "" {
			seen[d.URL] = true
		}
	}
	return seen, nil
}

// Collect fetches every seed not in skip and writes one corpus line per page
// to w. Failed pages are logged and skipped. It returns the number of lines
// written.
func (c *Collector) Collect(ctx context.Context, seeds []Seed, skip map[string]bool, w io.Writer) (int, error) {
	collected := 0
	for i, seed := range seeds {
		if c.MaxPages > 0 && collected >= c.MaxPages {
			break
		}
		if skip[seed.URL] {
			slog.Debug("Already collected", "url", seed.URL)
			continue
		}
		if i > 0 && c.Delay > 0 {
			select {
			case <-ctx.Done():
				return collected, ctx.Err()
			case <-time.After(c.Delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return collected, err
		}

		lang, text, err := c.fetch(ctx, seed)
		if err != nil {
			slog.Warn("Failed to collect", "url", seed.URL, "error", err)
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", lang, seed.URL, text); err != nil {
			return collected, err
		}
		collected++
		slog.Info("Collected", "url", seed.URL, "lang", lang, "bytes", len(text), "total", collected)
	}
	return collected, nil
}

// fetch downloads a seed and returns its language and single-line visible text.
func (c *Collector) fetch(ctx context.Context, seed Seed) (string, string, error) {
	var doc *goquery.Document
	var err error
	if c.Renderer != nil {
		var html string
		if html, err = c.Renderer.Render(ctx, seed.URL); err == nil {
			doc, err = htmlutil.LoadHTMLString(html)
		}
	} else {
		doc, err = c.download(ctx, seed.URL)
	}
	if err != nil {
		return "", "", err
	}

	lang := seed.Lang
	if lang == "" {
		lang = htmlutil.DeclaredLang(doc)
	}
	if lang == "" {
		return "", "", ErrNoLanguage
	}

	text := textutil.NormalizeWhitespaces(htmlutil.VisibleText(doc))
	text = textutil.Truncate(text, c.MaxBytes)
	if len(text) < c.MinChars {
		return "", "", fmt.Errorf("visible text too short (%d bytes)", len(text))
	}
	return lang, text, nil
}

func (c *Collector) download(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBody), ct)
	if err != nil {
		return nil, fmt.Errorf("detect charset: %w", err)
	}
	doc, err := htmlutil.LoadHTML(body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return doc, nil
}
