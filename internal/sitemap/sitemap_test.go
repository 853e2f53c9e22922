package sitemap

import (
	"strings"
	"testing"
	"time"

	"github.com/romangod6/agency-site/internal/content"
	"github.com/romangod6/agency-site/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://example.com"

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func sampleEntries() []models.SitemapEntry {
	return []models.SitemapEntry{
		{Path: "/", Priority: 1.0, ChangeFrequency: models.ChangeWeekly, Visibility: models.VisibilityPublic},
		{Path: "/admin", Priority: 0.1, ChangeFrequency: models.ChangeNever, Visibility: models.VisibilityInternal},
	}
}

func TestSerializeExample(t *testing.T) {
	doc := Serialize(sampleEntries(), baseURL, fixedClock)

	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.True(t, strings.HasSuffix(doc, "</urlset>\n"))
	assert.Contains(t, doc, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)
	assert.Contains(t, doc, `xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"`)
	assert.Contains(t, doc, `xsi:schemaLocation="`+models.SitemapSchemaLocation+`"`)
	assert.Equal(t, 1, strings.Count(doc, "<url>"))
	assert.Contains(t, doc, "<loc>https://example.com/</loc>")
	assert.Contains(t, doc, "<lastmod>2024-03-01T12:00:00.000Z</lastmod>")
	assert.Contains(t, doc, "<changefreq>weekly</changefreq>")
	assert.Contains(t, doc, "<priority>1.0</priority>")
	assert.NotContains(t, doc, "/admin")

	parsed, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/"}, parsed.Locs())
}

func TestSerializeEmpty(t *testing.T) {
	doc := Serialize(nil, baseURL, fixedClock)

	assert.NotContains(t, doc, "<url>")
	assert.Contains(t, doc, "</urlset>")

	parsed, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Empty(t, parsed.URLs)
}

func TestSerializeIsDeterministic(t *testing.T) {
	reg, err := content.Default()
	require.NoError(t, err)

	first := Serialize(reg.Entries(), baseURL, fixedClock)
	second := Serialize(reg.Entries(), baseURL, fixedClock)
	assert.Equal(t, first, second)
}

func TestSerializeRegistryProperties(t *testing.T) {
	reg, err := content.Default()
	require.NoError(t, err)

	entries := reg.Entries()
	doc := Serialize(entries, baseURL, fixedClock)
	parsed, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	counts := make(map[string]int)
	for _, loc := range parsed.Locs() {
		counts[loc]++
	}

	var wantOrder []string
	for _, e := range entries {
		loc := baseURL + e.Path
		if e.IsPublic() {
			assert.Equal(t, 1, counts[loc], "public entry %s", e.Path)
			wantOrder = append(wantOrder, loc)
		} else {
			assert.Zero(t, counts[loc], "internal entry %s leaked", e.Path)
		}
	}
	assert.Equal(t, wantOrder, parsed.Locs(), "registry order must be preserved")
	assert.Equal(t, CountPublic(entries), len(parsed.URLs))
}

func TestSerializeUsesEntryLastModified(t *testing.T) {
	modified := time.Date(2023, 11, 5, 8, 30, 0, 0, time.FixedZone("CET", 3600))
	entries := []models.SitemapEntry{
		{Path: "/blog", Priority: 0.6, ChangeFrequency: models.ChangeDaily, LastModified: modified, Visibility: models.VisibilityPublic},
	}

	doc := Serialize(entries, baseURL, fixedClock)
	assert.Contains(t, doc, "<lastmod>2023-11-05T07:30:00.000Z</lastmod>")
}

func TestFormatPriority(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1.0"},
		{0, "0.0"},
		{0.5, "0.5"},
		{0.85, "0.85"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPriority(tt.in))
	}
}

func TestGeneratorTrimsBaseURL(t *testing.T) {
	g := NewGenerator("https://example.com/")
	g.Clock = fixedClock

	doc := g.Generate(sampleEntries())
	assert.Contains(t, doc, "<loc>https://example.com/</loc>")
	assert.NotContains(t, doc, "https://example.com//")
}
