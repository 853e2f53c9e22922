package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/romangod6/agency-site/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Initialize())
	t.Cleanup(func() { store.Close() })
	return store
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("consent missing", func(t *testing.T) {
		record, err := store.GetConsent(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("consent upsert", func(t *testing.T) {
		visitor := uuid.New()
		created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

		first := models.NewConsentRecord(visitor, map[string]bool{"essential": true, "analytics": false})
		first.CreatedAt, first.UpdatedAt = created, created
		require.NoError(t, store.SaveConsent(ctx, first))

		second := models.NewConsentRecord(visitor, map[string]bool{"essential": true, "analytics": true})
		second.CreatedAt = created.Add(time.Hour)
		second.UpdatedAt = created.Add(time.Hour)
		require.NoError(t, store.SaveConsent(ctx, second))

		got, err := store.GetConsent(ctx, visitor)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, visitor, got.VisitorID)
		assert.Equal(t, map[string]bool{"essential": true, "analytics": true}, got.Preferences)
		assert.True(t, got.CreatedAt.Equal(created), "created_at must survive the upsert")
		assert.True(t, got.UpdatedAt.Equal(created.Add(time.Hour)))
	})

	t.Run("exports", func(t *testing.T) {
		base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			export := models.NewSitemapExport("publisher", "sitemap.xml", "https://example.com", 10+i, 1000+i)
			export.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			require.NoError(t, store.RecordExport(ctx, export))
		}

		exports, err := store.ListExports(ctx, 2)
		require.NoError(t, err)
		require.Len(t, exports, 2)
		assert.Equal(t, 12, exports[0].URLCount)
		assert.Equal(t, 11, exports[1].URLCount)
		assert.Equal(t, "publisher", exports[0].Trigger)
		assert.NotEqual(t, uuid.Nil, exports[0].ID)
	})
}

func TestSQLiteStore(t *testing.T) {
	exerciseStore(t, newTestSQLiteStore(t))
}

func TestSQLiteInitializeIsIdempotent(t *testing.T) {
	store := newTestSQLiteStore(t)
	assert.NoError(t, store.Initialize())
}

func TestOpenSelectsSQLite(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*SQLiteStore)
	assert.True(t, ok)
}
