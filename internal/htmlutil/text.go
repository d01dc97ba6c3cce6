package htmlutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/happyhackingspace/langid/internal/textutil"
)

// Elements whose content is never rendered as prose.
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
}

// Elements that separate blocks of text.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "td": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "header": true, "footer": true,
	"blockquote": true, "pre": true, "tr": true, "title": true,
}

// VisibleText returns the document's readable text: text nodes outside
// scripts and styles, with block elements separated by a newline
// and whitespace inside blocks collapsed. The <title> is kept.
func VisibleText(doc *goquery.Document) string {
	var blocks []string
	var cur strings.Builder

	flush := func() {
		if t := textutil.NormalizeWhitespaces(cur.String()); t != "" {
			blocks = append(blocks, t)
		}
		cur.Reset()
	}

	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			cur.WriteString(n.Data)
			cur.WriteByte(' ')
			return
		case html.ElementNode:
			if skipTags[n.Data] {
				return
			}
		case html.CommentNode:
			return
		}

		block := n.Type == html.ElementNode && blockTags[n.Data]
		if block {
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
		if block {
			flush()
		}
	}

	for _, n := range doc.Nodes {
		visit(n)
	}
	flush()
	return strings.Join(blocks, "\n")
}
