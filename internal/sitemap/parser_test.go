package sitemap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse(strings.NewReader("<urlset><url>"))
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	doc := Serialize(sampleEntries(), baseURL, fixedClock)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sitemap.xml" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(doc))
	}))
	defer srv.Close()

	parsed, err := Fetch(context.Background(), srv.Client(), srv.URL+"/sitemap.xml")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/"}, parsed.Locs())

	_, err = Fetch(context.Background(), srv.Client(), srv.URL+"/missing.xml")
	assert.ErrorContains(t, err, "unexpected status 404")
}
