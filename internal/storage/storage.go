package storage

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/romangod6/agency-site/internal/models"
)

type Store interface {
	Initialize() error
	Close() error

	// Cookie consent operations
	GetConsent(ctx context.Context, visitorID uuid.UUID) (*models.ConsentRecord, error)
	SaveConsent(ctx context.Context, record *models.ConsentRecord) error

	// Sitemap export history
	RecordExport(ctx context.Context, export *models.SitemapExport) error
	ListExports(ctx context.Context, limit int) ([]*models.SitemapExport, error)
}

// Open picks the backend from the DSN: postgres URLs go to Postgres,
// anything else is treated as a SQLite path.
func Open(dsn string) (Store, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return NewPostgresStore(dsn)
	}
	return NewSQLiteStore(dsn)
}
