// internal/models/sitemap.go
package models

import "encoding/xml"

const (
	SitemapNamespace      = "http://www.sitemaps.org/schemas/sitemap/0.9"
	SchemaInstanceNS      = "http://www.w3.org/2001/XMLSchema-instance"
	SitemapSchemaLocation = "http://www.sitemaps.org/schemas/sitemap/0.9 http://www.sitemaps.org/schemas/sitemap/0.9/sitemap.xsd"
)

// Sitemap represents the structure of an XML sitemap.
type Sitemap struct {
	XMLName        xml.Name `xml:"urlset"`
	XMLNS          string   `xml:"xmlns,attr,omitempty"`
	XSI            string   `xml:"xmlns:xsi,attr,omitempty"`
	SchemaLocation string   `xml:"xsi:schemaLocation,attr,omitempty"`
	URLs           []URL    `xml:"url"`
}

// URL represents a single URL entry in the sitemap.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// NewSitemap returns an empty urlset carrying the canonical namespace declarations.
func NewSitemap() *Sitemap {
	return &Sitemap{
		XMLNS:          SitemapNamespace,
		XSI:            SchemaInstanceNS,
		SchemaLocation: SitemapSchemaLocation,
		URLs:           []URL{},
	}
}

// Locs returns every <loc> value in document order.
func (s *Sitemap) Locs() []string {
	locs := make([]string, 0, len(s.URLs))
	for _, u := range s.URLs {
		locs = append(locs, u.Loc)
	}
	return locs
}
