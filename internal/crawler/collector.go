package crawler

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/romangod6/agency-site/internal/models"
	"github.com/romangod6/agency-site/internal/sitemap"
)

// AuditorConfig controls how published URLs are visited.
type AuditorConfig struct {
	UserAgent      string
	Parallelism    int
	AllowedDomains []string
	Timeout        time.Duration
}

// AuditResult is the outcome of visiting one sitemap URL.
type AuditResult struct {
	URL         string `json:"url"`
	StatusCode  int    `json:"statusCode"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Err         string `json:"error,omitempty"`
}

func (r AuditResult) OK() bool {
	return r.Err == "" && r.StatusCode >= 200 && r.StatusCode < 300
}

// Auditor checks that every URL a sitemap advertises actually resolves.
type Auditor struct {
	config *AuditorConfig
	client *http.Client
}

func NewAuditor(config *AuditorConfig) *Auditor {
	if config.UserAgent == "" {
		config.UserAgent = "Agency Site Auditor v1.0"
	}
	if config.Parallelism < 1 {
		config.Parallelism = 2
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &Auditor{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

func (a *Auditor) newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(a.config.UserAgent),
		colly.MaxDepth(1),
		colly.Async(true),
	)
	if len(a.config.AllowedDomains) > 0 {
		c.AllowedDomains = a.config.AllowedDomains
	}
	c.SetRequestTimeout(a.config.Timeout)

	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: a.config.Parallelism,
	})
	return c
}

// AuditURL fetches the sitemap at sitemapURL and audits it.
func (a *Auditor) AuditURL(ctx context.Context, sitemapURL string) ([]AuditResult, error) {
	doc, err := sitemap.Fetch(ctx, a.client, sitemapURL)
	if err != nil {
		return nil, err
	}
	return a.Audit(ctx, doc)
}

// Audit visits every <loc> in doc and returns one result per URL in
// document order.
func (a *Auditor) Audit(ctx context.Context, doc *models.Sitemap) ([]AuditResult, error) {
	var mu sync.Mutex
	results := make(map[string]*AuditResult, len(doc.URLs))

	get := func(url string) *AuditResult {
		r, ok := results[url]
		if !ok {
			r = &AuditResult{URL: url}
			results[url] = r
		}
		return r
	}

	c := a.newCollector()

	c.OnResponse(func(r *colly.Response) {
		mu.Lock()
		defer mu.Unlock()
		get(locOf(r.Request)).StatusCode = r.StatusCode
	})

	c.OnHTML("html", func(e *colly.HTMLElement) {
		meta := ExtractPageMeta(e.DOM)

		mu.Lock()
		defer mu.Unlock()
		res := get(locOf(e.Request))
		res.Title = meta.Title
		res.Description = meta.Description
	})

	c.OnError(func(r *colly.Response, err error) {
		mu.Lock()
		defer mu.Unlock()
		res := get(locOf(r.Request))
		res.StatusCode = r.StatusCode
		res.Err = err.Error()
	})

	for _, u := range doc.URLs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// The sitemap URL rides along in the request context so redirects
		// are still attributed to the advertised loc.
		rctx := colly.NewContext()
		rctx.Put(locKey, u.Loc)
		if err := c.Request(http.MethodGet, u.Loc, nil, rctx, nil); err != nil {
			mu.Lock()
			if _, seen := results[u.Loc]; !seen {
				get(u.Loc).Err = err.Error()
			}
			mu.Unlock()
		}
	}

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}

	ordered := make([]AuditResult, 0, len(doc.URLs))
	for _, u := range doc.URLs {
		r, ok := results[u.Loc]
		if !ok {
			r = &AuditResult{URL: u.Loc, Err: fmt.Sprintf("no response for %s", u.Loc)}
		}
		ordered = append(ordered, *r)
	}
	return ordered, nil
}

const locKey = "loc"

func locOf(r *colly.Request) string {
	if loc := r.Ctx.Get(locKey); loc != "" {
		return loc
	}
	return r.URL.String()
}

// Broken filters the results that did not resolve to a 2xx page.
func Broken(results []AuditResult) []AuditResult {
	var out []AuditResult
	for _, r := range results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}
