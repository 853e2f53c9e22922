package models

import (
	"time"

	"github.com/google/uuid"
)

type ChangeFrequency string

const (
	ChangeAlways  ChangeFrequency = "always"
	ChangeHourly  ChangeFrequency = "hourly"
	ChangeDaily   ChangeFrequency = "daily"
	ChangeWeekly  ChangeFrequency = "weekly"
	ChangeMonthly ChangeFrequency = "monthly"
	ChangeYearly  ChangeFrequency = "yearly"
	ChangeNever   ChangeFrequency = "never"
)

// Valid reports whether f is one of the sitemap protocol values.
func (f ChangeFrequency) Valid() bool {
	switch f {
	case ChangeAlways, ChangeHourly, ChangeDaily, ChangeWeekly, ChangeMonthly, ChangeYearly, ChangeNever:
		return true
	}
	return false
}

type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityInternal Visibility = "internal"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityInternal
}

// SitemapEntry is one publishable route. A zero LastModified means
// "use the generation time".
type SitemapEntry struct {
	Path            string          `json:"path"`
	Priority        float64         `json:"priority"`
	ChangeFrequency ChangeFrequency `json:"changeFrequency"`
	LastModified    time.Time       `json:"lastModified,omitempty"`
	Visibility      Visibility      `json:"visibility"`
}

// IsPublic returns true if the entry may appear in an exported sitemap
func (e SitemapEntry) IsPublic() bool {
	return e.Visibility == VisibilityPublic
}

type ConsentRecord struct {
	VisitorID   uuid.UUID       `json:"visitorId"`
	Preferences map[string]bool `json:"preferences"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type SitemapExport struct {
	ID        uuid.UUID `json:"id"`
	Trigger   string    `json:"trigger"`
	Filename  string    `json:"filename"`
	BaseURL   string    `json:"baseUrl"`
	URLCount  int       `json:"urlCount"`
	Bytes     int       `json:"bytes"`
	CreatedAt time.Time `json:"createdAt"`
}
