package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"

	"github.com/romangod6/agency-site/internal/models"
)

// Parse reads a urlset document.
func Parse(r io.Reader) (*models.Sitemap, error) {
	var doc models.Sitemap
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse sitemap: %w", err)
	}
	return &doc, nil
}

// Fetch downloads and parses the sitemap at url.
func Fetch(ctx context.Context, client *http.Client, url string) (*models.Sitemap, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sitemap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch sitemap: unexpected status %d", resp.StatusCode)
	}

	return Parse(resp.Body)
}
