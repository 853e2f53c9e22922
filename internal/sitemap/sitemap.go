// Package sitemap turns the page registry into a sitemaps.org document and
// delivers it as a file.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/romangod6/agency-site/internal/models"
)

// LastModLayout is ISO 8601 with millisecond precision, always in UTC.
const LastModLayout = "2006-01-02T15:04:05.000Z07:00"

const DefaultFilename = "sitemap.xml"

// Clock supplies the lastmod value for entries that don't carry one.
type Clock func() time.Time

// Serialize renders the public entries as a sitemap document. Entries keep
// registry order; internal entries are dropped. baseURL is an origin
// without a trailing slash.
func Serialize(entries []models.SitemapEntry, baseURL string, clock Clock) string {
	if clock == nil {
		clock = time.Now
	}
	now := clock()

	doc := models.NewSitemap()
	for _, e := range entries {
		if !e.IsPublic() {
			continue
		}
		lastMod := e.LastModified
		if lastMod.IsZero() {
			lastMod = now
		}
		doc.URLs = append(doc.URLs, models.URL{
			Loc:        baseURL + e.Path,
			LastMod:    lastMod.UTC().Format(LastModLayout),
			ChangeFreq: string(e.ChangeFrequency),
			Priority:   FormatPriority(e.Priority),
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		// Only plain strings are marshalled; this cannot fail.
		panic(fmt.Sprintf("sitemap: marshal urlset: %v", err))
	}

	var b strings.Builder
	b.WriteString(xml.Header)
	b.Write(out)
	b.WriteString("\n")
	return b.String()
}

// FormatPriority keeps at least one decimal: 1 -> "1.0", 0.85 -> "0.85".
func FormatPriority(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Generator binds a base URL and clock so callers can regenerate the
// document from the current registry on every request.
type Generator struct {
	BaseURL string
	Clock   Clock
}

func NewGenerator(baseURL string) *Generator {
	return &Generator{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Clock:   time.Now,
	}
}

func (g *Generator) Generate(entries []models.SitemapEntry) string {
	return Serialize(entries, g.BaseURL, g.Clock)
}

// CountPublic returns how many <url> blocks Serialize will emit.
func CountPublic(entries []models.SitemapEntry) int {
	n := 0
	for _, e := range entries {
		if e.IsPublic() {
			n++
		}
	}
	return n
}
