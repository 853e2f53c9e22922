package consent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/romangod6/agency-site/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	records map[uuid.UUID]*models.ConsentRecord
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[uuid.UUID]*models.ConsentRecord)}
}

func (f *fakeStore) GetConsent(_ context.Context, id uuid.UUID) (*models.ConsentRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[id], nil
}

func (f *fakeStore) SaveConsent(_ context.Context, record *models.ConsentRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records[record.VisitorID] = record
	return nil
}

func TestServiceLoadDefaults(t *testing.T) {
	svc := NewService(newFakeStore())

	prefs, err := svc.Load(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), prefs)
}

func TestServiceSaveAndLoad(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	visitor := uuid.New()

	saved, err := svc.Save(context.Background(), visitor, Preferences{Essential: false, Analytics: true})
	require.NoError(t, err)
	assert.True(t, saved[Essential])
	assert.True(t, saved[Analytics])

	record := store.records[visitor]
	require.NotNil(t, record)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), record.UpdatedAt)
	assert.True(t, record.Preferences["essential"])

	loaded, err := svc.Load(context.Background(), visitor)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestServiceStorageErrors(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("database is locked")
	svc := NewService(store)

	prefs, err := svc.Save(context.Background(), uuid.New(), Defaults())
	var serr *StorageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "save", serr.Op)
	assert.ErrorIs(t, err, store.err)
	assert.Equal(t, Defaults(), prefs)

	prefs, err = svc.Load(context.Background(), uuid.New())
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "load", serr.Op)
	assert.Equal(t, Defaults(), prefs)
}
