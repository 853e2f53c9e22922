package models

import (
	"time"

	"github.com/google/uuid"
)

// NewConsentRecord creates a consent record for the visitor with timestamps set
func NewConsentRecord(visitorID uuid.UUID, prefs map[string]bool) *ConsentRecord {
	now := time.Now().UTC()
	return &ConsentRecord{
		VisitorID:   visitorID,
		Preferences: prefs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewSitemapExport creates an export record with a generated UUID
func NewSitemapExport(trigger, filename, baseURL string, urlCount, size int) *SitemapExport {
	return &SitemapExport{
		ID:        uuid.New(),
		Trigger:   trigger,
		Filename:  filename,
		BaseURL:   baseURL,
		URLCount:  urlCount,
		Bytes:     size,
		CreatedAt: time.Now().UTC(),
	}
}
