// Package metrics holds the prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "agency_site"

type Metrics struct {
	registry *prometheus.Registry

	SitemapExports *prometheus.CounterVec
	ConsentSaves   *prometheus.CounterVec
	PageViews      *prometheus.CounterVec
}

// New registers the site collectors on a dedicated registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		SitemapExports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sitemap_exports_total",
			Help:      "Sitemap documents exported, by trigger.",
		}, []string{"trigger"}),
		ConsentSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consent_saves_total",
			Help:      "Cookie preference saves, by result.",
		}, []string{"result"}),
		PageViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_views_total",
			Help:      "Rendered page responses, by status code.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		m.SitemapExports,
		m.ConsentSaves,
		m.PageViews,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// The recorders below accept a nil receiver so callers without metrics
// don't need to guard every call.

func (m *Metrics) ExportRecorded(trigger string) {
	if m == nil {
		return
	}
	m.SitemapExports.WithLabelValues(trigger).Inc()
}

func (m *Metrics) ConsentSaved(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ConsentSaves.WithLabelValues(result).Inc()
}

func (m *Metrics) PageViewed(status int) {
	if m == nil {
		return
	}
	m.PageViews.WithLabelValues(strconv.Itoa(status)).Inc()
}
