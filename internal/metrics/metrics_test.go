package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New()

	m.ExportRecorded("download")
	m.ExportRecorded("download")
	m.ExportRecorded("publisher")
	m.ConsentSaved(nil)
	m.ConsentSaved(errors.New("disk full"))
	m.PageViewed(http.StatusOK)
	m.PageViewed(http.StatusNotFound)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SitemapExports.WithLabelValues("download")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SitemapExports.WithLabelValues("publisher")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConsentSaves.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConsentSaves.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PageViews.WithLabelValues("404")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ExportRecorded("download")
		m.ConsentSaved(nil)
		m.PageViewed(200)
	})
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.ExportRecorded("cli")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `agency_site_sitemap_exports_total{trigger="cli"} 1`)
}
