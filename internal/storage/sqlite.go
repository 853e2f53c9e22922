package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/romangod6/agency-site/internal/models"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// One connection keeps ":memory:" databases alive across queries and
	// serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS consent_preferences (
            visitor_id TEXT PRIMARY KEY,
            preferences TEXT NOT NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS sitemap_exports (
            id TEXT PRIMARY KEY,
            export_trigger TEXT NOT NULL,
            filename TEXT NOT NULL,
            base_url TEXT NOT NULL,
            url_count INTEGER NOT NULL,
            bytes INTEGER NOT NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_sitemap_exports_created_at ON sitemap_exports(created_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *SQLiteStore) GetConsent(ctx context.Context, visitorID uuid.UUID) (*models.ConsentRecord, error) {
	query := `
        SELECT preferences, created_at, updated_at
        FROM consent_preferences
        WHERE visitor_id = ?
    `

	record := &models.ConsentRecord{VisitorID: visitorID}
	var prefsJSON string

	err := s.db.QueryRowContext(ctx, query, visitorID.String()).Scan(
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

	if err := json.Unmarshal([]byte(prefsJSON), &record.Preferences); err != nil {
		return nil, fmt.Errorf("corrupt preferences for visitor %s: %w", visitorID, err)
	}

	return record, nil
}

func (s *SQLiteStore) SaveConsent(ctx context.Context, record *models.ConsentRecord) error {
	query := `
        INSERT INTO consent_preferences (visitor_id, preferences, created_at, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(visitor_id) DO UPDATE SET
            preferences = excluded.preferences,
            updated_at = excluded.updated_at
    `

	prefsJSON, err := json.Marshal(record.Preferences)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query,
		record.VisitorID.String(),
		string(prefsJSON),
		record.CreatedAt,
		record.UpdatedAt,
	)

	return err
}

func (s *SQLiteStore) RecordExport(ctx context.Context, export *models.SitemapExport) error {
	query := `
        INSERT INTO sitemap_exports (id, export_trigger, filename, base_url, url_count, bytes, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `

	_, err := s.db.ExecContext(ctx, query,
		export.ID.String(),
		export.Trigger,
		export.Filename,
		export.BaseURL,
		export.URLCount,
		export.Bytes,
		export.CreatedAt,
	)

	return err
}

func (s *SQLiteStore) ListExports(ctx context.Context, limit int) ([]*models.SitemapExport, error) {
	query := `
        SELECT id, export_trigger, filename, base_url, url_count, bytes, created_at
        FROM sitemap_exports
        ORDER BY created_at DESC
        LIMIT ?
    `

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exports []*models.SitemapExport
	for rows.Next() {
		var export models.SitemapExport
		var idStr string

		err := rows.Scan(
			&idStr,
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

		export.ID, _ = uuid.Parse(idStr)
		exports = append(exports, &export)
	}

	return exports, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
