// internal/crawler/parser.go
package crawler

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// PageMeta holds what the audit reads from a visited page.
type PageMeta struct {
	Title       string
	Description string
	Links       []string
}

// ExtractPageMeta reads the title, meta description and internal links
// of a parsed document.
func ExtractPageMeta(sel *goquery.Selection) PageMeta {
	var meta PageMeta

	meta.Title = normalizeText(sel.Find("title").First())

	sel.Find("meta[name='description']").Each(func(i int, s *goquery.Selection) {
		if content, exists := s.Attr("content"); exists {
			meta.Description = strings.TrimSpace(content)
		}
	})

	sel.Find("a[href^='/']").Each(func(i int, s *goquery.Selection) {
		if href, exists := s.Attr("href"); exists {
			meta.Links = append(meta.Links, href)
		}
	})

	return meta
}

// ParsePageMeta parses raw HTML and extracts its PageMeta.
func ParsePageMeta(content string) (PageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return PageMeta{}, err
	}
	return ExtractPageMeta(doc.Selection), nil
}

// normalizeText renders the text of a node with comments removed and
// whitespace collapsed.
func normalizeText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}

	var buf bytes.Buffer
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}

	return strings.Join(strings.Fields(buf.String()), " ")
}
