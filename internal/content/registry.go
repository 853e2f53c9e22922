// Package content holds the site's page registry: every route the site
// serves together with its sitemap metadata and the sections the renderer
// turns into markup.
package content

import (
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/romangod6/agency-site/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed pages.yaml
var defaultPages []byte

const (
	DefaultPriority        = 0.5
	DefaultChangeFrequency = models.ChangeMonthly
)

// internalPrefixes are route areas that never appear in a sitemap,
// whatever the registry file says.
var internalPrefixes = []string{"/admin"}

type Section struct {
	Heading string   `yaml:"heading" json:"heading"`
	Body    []string `yaml:"body" json:"body,omitempty"`
	Items   []string `yaml:"items" json:"items,omitempty"`
}

type Page struct {
	Path            string                 `yaml:"path" json:"path"`
	Title           string                 `yaml:"title" json:"title"`
	Description     string                 `yaml:"description" json:"description,omitempty"`
	Priority        *float64               `yaml:"priority" json:"priority"`
	ChangeFrequency models.ChangeFrequency `yaml:"changefreq" json:"changeFrequency"`
	LastModified    time.Time              `yaml:"lastmod" json:"lastModified,omitempty"`
	Visibility      models.Visibility      `yaml:"visibility" json:"visibility"`
	Sections        []Section              `yaml:"sections" json:"sections,omitempty"`
}

// Entry returns the sitemap metadata of the page.
func (p Page) Entry() models.SitemapEntry {
	priority := DefaultPriority
	if p.Priority != nil {
		priority = *p.Priority
	}
	return models.SitemapEntry{
		Path:            p.Path,
		Priority:        priority,
		ChangeFrequency: p.ChangeFrequency,
		LastModified:    p.LastModified,
		Visibility:      p.Visibility,
	}
}

func (p Page) IsPublic() bool {
	return p.Visibility == models.VisibilityPublic
}

type registryFile struct {
	Pages []Page `yaml:"pages"`
}

// Registry is the static route table. It is built once at startup and is
// read-only afterwards, so it can be shared between goroutines.
type Registry struct {
	pages  []Page
	byPath map[string]int
}

// Default loads the registry embedded in the binary.
func Default() (*Registry, error) {
	return Load(strings.NewReader(string(defaultPages)))
}

func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open content file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load parses a YAML registry, fills in defaults and validates every page.
func Load(r io.Reader) (*Registry, error) {
	var file registryFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode content registry: %w", err)
	}
	return New(file.Pages)
}

// New builds a registry from pages already in memory.
func New(pages []Page) (*Registry, error) {
	reg := &Registry{
		pages:  make([]Page, 0, len(pages)),
		byPath: make(map[string]int, len(pages)),
	}

	for _, p := range pages {
		applyDefaults(&p)
		if err := validate(p); err != nil {
			return nil, err
		}
		if _, dup := reg.byPath[p.Path]; dup {
			return nil, &ValidationError{Path: p.Path, Reason: "duplicate path"}
		}
		reg.byPath[p.Path] = len(reg.pages)
		reg.pages = append(reg.pages, p)
	}

	return reg, nil
}

func applyDefaults(p *Page) {
	if p.ChangeFrequency == "" {
		p.ChangeFrequency = DefaultChangeFrequency
	}
	if p.Visibility == "" {
		p.Visibility = models.VisibilityPublic
	}
	if isInternalPath(p.Path) {
		p.Visibility = models.VisibilityInternal
	}
}

func isInternalPath(path string) bool {
	for _, prefix := range internalPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func validate(p Page) error {
	switch {
	case p.Path == "":
		return &ValidationError{Reason: "path is required"}
	case !strings.HasPrefix(p.Path, "/"):
		return &ValidationError{Path: p.Path, Reason: "path must start with /"}
	case strings.TrimSpace(p.Title) == "":
		return &ValidationError{Path: p.Path, Reason: "title is required"}
	case p.Priority != nil && (math.IsNaN(*p.Priority) || *p.Priority < 0 || *p.Priority > 1):
		return &ValidationError{Path: p.Path, Reason: fmt.Sprintf("priority %.2f outside [0.0, 1.0]", *p.Priority)}
	case !p.ChangeFrequency.Valid():
		return &ValidationError{Path: p.Path, Reason: fmt.Sprintf("unknown change frequency %q", p.ChangeFrequency)}
	case !p.Visibility.Valid():
		return &ValidationError{Path: p.Path, Reason: fmt.Sprintf("unknown visibility %q", p.Visibility)}
	}
	return nil
}

// Pages returns every page in registry order.
func (r *Registry) Pages() []Page {
	out := make([]Page, len(r.pages))
	copy(out, r.pages)
	return out
}

func (r *Registry) Lookup(path string) (Page, bool) {
	idx, ok := r.byPath[path]
	if !ok {
		return Page{}, false
	}
	return r.pages[idx], true
}

// Public returns the public pages in registry order.
func (r *Registry) Public() []Page {
	var out []Page
	for _, p := range r.pages {
		if p.IsPublic() {
			out = append(out, p)
		}
	}
	return out
}

// Entries returns the sitemap metadata of every page, internal ones
// included. Filtering is the serializer's job.
func (r *Registry) Entries() []models.SitemapEntry {
	entries := make([]models.SitemapEntry, 0, len(r.pages))
	for _, p := range r.pages {
		entries = append(entries, p.Entry())
	}
	return entries
}

func (r *Registry) Len() int {
	return len(r.pages)
}
