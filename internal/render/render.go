// Package render turns registry pages into HTML. Every page shares the same
// layout chrome; the body is built from the page's sections, so adding a
// page never needs new markup.
package render

//go:generate templ generate

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/romangod6/agency-site/internal/consent"
	"github.com/romangod6/agency-site/internal/content"
)

const (
	SitemapPagePath = "/sitemap"
	ExportPath      = "/api/sitemap/export"
)

// footerPaths are linked from the footer instead of the header.
var footerPaths = []string{"/privacy-policy", "/terms-of-service", "/cookie-policy", "/sitemap"}

// trackingScripts are only emitted when the visitor allowed the category.
var trackingScripts = []struct {
	Category consent.Category
	Src      string
}{
	{consent.Analytics, "/static/js/analytics.js"},
	{consent.Marketing, "/static/js/marketing.js"},
}

type Site struct {
	Name    string
	BaseURL string
}

// Context is everything a page needs to render. It is built per request
// and passed down explicitly.
type Context struct {
	Site       Site
	Page       content.Page
	Navigation []content.Page
	Consent    consent.Preferences
	Year       int
}

// Page renders a full document for rc.Page.
func Page(rc Context) templ.Component {
	return withLayout(rc, pageBody(rc.Page, rc.Navigation))
}

// NotFound renders the 404 document.
func NotFound(rc Context) templ.Component {
	rc.Page = content.Page{Title: "Page not found"}
	return withLayout(rc, notFoundBody())
}

func withLayout(rc Context, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return layout(rc).Render(templ.WithChildren(ctx, body), w)
	})
}

// inHeader keeps the header to top-level, non-legal routes.
func inHeader(path string) bool {
	if path == "/" || isFooterPath(path) {
		return false
	}
	return strings.Count(path, "/") == 1
}

func isFooterPath(path string) bool {
	for _, p := range footerPaths {
		if p == path {
			return true
		}
	}
	return false
}

func label(c consent.Category) string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
