package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/romangod6/agency-site/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS consent_preferences (
            visitor_id UUID PRIMARY KEY,
            preferences JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS sitemap_exports (
            id UUID PRIMARY KEY,
            export_trigger VARCHAR(64) NOT NULL,
            filename VARCHAR(255) NOT NULL,
            base_url VARCHAR(2048) NOT NULL,
            url_count INTEGER NOT NULL,
            bytes INTEGER NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_sitemap_exports_created_at ON sitemap_exports(created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *PostgresStore) GetConsent(ctx context.Context, visitorID uuid.UUID) (*models.ConsentRecord, error) {
	query := `
        SELECT visitor_id, preferences, created_at, updated_at
        FROM consent_preferences
        WHERE visitor_id = $1
    `

	record := &models.ConsentRecord{}
	var prefsJSON []byte

	err := s.db.QueryRowContext(ctx, query, visitorID).Scan(
		&record.VisitorID,
		&prefsJSON,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(prefsJSON, &record.Preferences); err != nil {
		return nil, fmt.Errorf("corrupt preferences for visitor %s: %w", visitorID, err)
	}

	return record, nil
}

func (s *PostgresStore) SaveConsent(ctx context.Context, record *models.ConsentRecord) error {
	query := `
        INSERT INTO consent_preferences (visitor_id, preferences, created_at, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (visitor_id) DO UPDATE SET
            preferences = EXCLUDED.preferences,
            updated_at = EXCLUDED.updated_at
    `

	prefsJSON, err := json.Marshal(record.Preferences)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query,
		record.VisitorID,
		prefsJSON,
		record.CreatedAt,
		record.UpdatedAt,
	)

	return err
}

func (s *PostgresStore) RecordExport(ctx context.Context, export *models.SitemapExport) error {
	query := `
        INSERT INTO sitemap_exports (id, export_trigger, filename, base_url, url_count, bytes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err := s.db.ExecContext(ctx, query,
		export.ID,
		export.Trigger,
		export.Filename,
		export.BaseURL,
		export.URLCount,
		export.Bytes,
		export.CreatedAt,
	)

	return err
}

func (s *PostgresStore) ListExports(ctx context.Context, limit int) ([]*models.SitemapExport, error) {
	query := `
        SELECT id, export_trigger, filename, base_url, url_count, bytes, created_at
        FROM sitemap_exports
        ORDER BY created_at DESC
        LIMIT $1
    `

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exports []*models.SitemapExport
	for rows.Next() {
		export := &models.SitemapExport{}

		err := rows.Scan(
			&export.ID,
			&export.Trigger,
			&export.Filename,
			&export.BaseURL,
			&export.URLCount,
			&export.Bytes,
			&export.CreatedAt,
		)

		if err != nil {
			return nil, err
		}

		exports = append(exports, export)
	}

	return exports, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
