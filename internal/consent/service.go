package consent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/romangod6/agency-site/internal/models"
)

// StorageError wraps a persistence failure. The caller keeps its in-memory
// preferences and tells the visitor the save did not stick.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("consent %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Store is the subset of storage the consent service needs.
type Store interface {
	GetConsent(ctx context.Context, visitorID uuid.UUID) (*models.ConsentRecord, error)
	SaveConsent(ctx context.Context, record *models.ConsentRecord) error
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Load returns the visitor's saved preferences, or the defaults if nothing
// has been saved yet.
func (s *Service) Load(ctx context.Context, visitorID uuid.UUID) (Preferences, error) {
	record, err := s.store.GetConsent(ctx, visitorID)
	if err != nil {
		return Defaults(), &StorageError{Op: "load", Err: err}
	}
	if record == nil {
		return Defaults(), nil
	}
	return FromMap(record.Preferences).Normalize(), nil
}

// Save persists prefs for the visitor and returns what was stored.
func (s *Service) Save(ctx context.Context, visitorID uuid.UUID, prefs Preferences) (Preferences, error) {
	normalized := prefs.Normalize()

	record := models.NewConsentRecord(visitorID, normalized.ToMap())
	record.CreatedAt = s.now().UTC()
	record.UpdatedAt = record.CreatedAt

	if err := s.store.SaveConsent(ctx, record); err != nil {
		return normalized, &StorageError{Op: "save", Err: err}
	}
	return normalized, nil
}
