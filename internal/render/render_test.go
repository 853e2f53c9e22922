package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/romangod6/agency-site/internal/consent"
	"github.com/romangod6/agency-site/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderDoc(t *testing.T, rc Context, notFound bool) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	component := Page(rc)
	if notFound {
		component = NotFound(rc)
	}
	require.NoError(t, component.Render(context.Background(), &buf))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func testContext(t *testing.T, path string) Context {
	t.Helper()
	reg, err := content.Default()
	require.NoError(t, err)

	page, ok := reg.Lookup(path)
	require.True(t, ok, path)

	return Context{
		Site:       Site{Name: "Northwind Studio", BaseURL: "https://example.com"},
		Page:       page,
		Navigation: reg.Public(),
		Consent:    consent.Defaults(),
		Year:       2024,
	}
}

func TestPageLayout(t *testing.T) {
	rc := testContext(t, "/services")
	doc := renderDoc(t, rc, false)

	assert.Equal(t, "Services | Northwind Studio", doc.Find("title").Text())
	assert.Equal(t, "Services", doc.Find("main h1").Text())
	assert.Equal(t, 4, doc.Find("main section li").Length())

	header := doc.Find("header nav ul a")
	var links []string
	header.Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		links = append(links, href)
	})
	assert.Contains(t, links, "/services")
	assert.NotContains(t, links, "/services/seo")
	assert.NotContains(t, links, "/privacy-policy")
	assert.NotContains(t, links, "/admin")

	active, _ := doc.Find("header a.active").Attr("href")
	assert.Equal(t, "/services", active)

	assert.Equal(t, 4, doc.Find("footer ul.legal li").Length())
	assert.Contains(t, doc.Find("footer p").Text(), "2024 Northwind Studio")
	assert.Equal(t, 1, doc.Find(`footer a.scroll-to-top[href="#top"]`).Length())
}

func TestTrackingScriptsFollowConsent(t *testing.T) {
	rc := testContext(t, "/")

	doc := renderDoc(t, rc, false)
	assert.Zero(t, doc.Find("script").Length())

	rc.Consent = consent.Toggle(rc.Consent, consent.Analytics)
	doc = renderDoc(t, rc, false)
	assert.Equal(t, 1, doc.Find(`script[data-consent="analytics"]`).Length())
	assert.Zero(t, doc.Find(`script[data-consent="marketing"]`).Length())

	rc.Consent = consent.Reduce(rc.Consent, consent.Action{Type: consent.ActionAcceptAll})
	doc = renderDoc(t, rc, false)
	assert.Equal(t, 2, doc.Find("script").Length())
}

func TestCookieBanner(t *testing.T) {
	rc := testContext(t, "/")
	rc.Consent = consent.Toggle(rc.Consent, consent.Marketing)
	doc := renderDoc(t, rc, false)

	essential := doc.Find(`#cookie-preferences input[name="essential"]`)
	_, checked := essential.Attr("checked")
	_, disabled := essential.Attr("disabled")
	assert.True(t, checked)
	assert.True(t, disabled)

	_, checked = doc.Find(`#cookie-preferences input[name="marketing"]`).Attr("checked")
	assert.True(t, checked)
	_, checked = doc.Find(`#cookie-preferences input[name="analytics"]`).Attr("checked")
	assert.False(t, checked)
}

func TestSitemapPageListsPublicPages(t *testing.T) {
	rc := testContext(t, SitemapPagePath)
	doc := renderDoc(t, rc, false)

	assert.Equal(t, len(rc.Navigation), doc.Find("main section.sitemap li").Length())
	href, _ := doc.Find("main a.download").Attr("href")
	assert.Equal(t, ExportPath, href)
	assert.Zero(t, doc.Find(`main a[href^="/admin"]`).Length())
}

func TestContentIsEscaped(t *testing.T) {
	rc := testContext(t, "/")
	rc.Page = content.Page{
		Path:     "/x",
		Title:    `<script>alert("x")</script>`,
		Sections: []content.Section{{Heading: "A & B", Body: []string{"1 < 2"}}},
	}

	var buf bytes.Buffer
	require.NoError(t, Page(rc).Render(context.Background(), &buf))
	out := buf.String()

	assert.NotContains(t, out, `<script>alert`)
	assert.Contains(t, out, "A &amp; B")
	assert.Contains(t, out, "1 &lt; 2")
}

func TestNotFound(t *testing.T) {
	rc := testContext(t, "/")
	doc := renderDoc(t, rc, true)

	assert.Equal(t, "Page not found", doc.Find("main h1").Text())
	assert.Contains(t, doc.Find("title").Text(), "Page not found")
}

func TestBodyRendersOnceInsideMain(t *testing.T) {
	rc := testContext(t, "/about")
	doc := renderDoc(t, rc, false)

	assert.Equal(t, 1, doc.Find("h1").Length())
	assert.Equal(t, 1, doc.Find("main > h1").Length())
	assert.Zero(t, doc.Find("header h1, footer h1, aside h1").Length())
}

func TestRenderStopsOnCancelledContext(t *testing.T) {
	rc := testContext(t, "/")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Page(rc).Render(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
}
