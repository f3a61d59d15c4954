package picklist

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/errors"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
)

type fakeStorage struct {
	collections map[domain.PicklistType][]domain.PicklistEntry
	saveErr     error
	saveCalls   int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{collections: make(map[domain.PicklistType][]domain.PicklistEntry)}
}

func (f *fakeStorage) LoadAll(_ context.Context) (map[domain.PicklistType][]domain.PicklistEntry, error) {
	out := make(map[domain.PicklistType][]domain.PicklistEntry, len(f.collections))
	for t, entries := range f.collections {
		out[t] = append([]domain.PicklistEntry(nil), entries...)
	}
	return out, nil
}

func (f *fakeStorage) Save(_ context.Context, t domain.PicklistType, entries []domain.PicklistEntry) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.collections[t] = append([]domain.PicklistEntry(nil), entries...)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Writer: os.Stderr, Environment: "test", Level: slog.LevelError})
}

func testStore(t *testing.T) (*Store, *fakeStorage) {
	t.Helper()
	storage := newFakeStorage()
	storage.collections[domain.PicklistTypeBrand] = []domain.PicklistEntry{
		{ID: "B1", Name: "KOHLER"},
		{ID: "B2", Name: "MOEN"},
	}
	store := New(storage, testLogger())
	require.NoError(t, store.Load(context.Background()))
	return store, storage
}

func TestStoreLoadAndGet(t *testing.T) {
	store, _ := testStore(t)

	brands := store.Get(domain.PicklistTypeBrand)
	require.Len(t, brands, 2)
	assert.Equal(t, "B1", brands[0].ID)

	assert.Empty(t, store.Get(domain.PicklistTypeCategory))
}

func TestStoreReplace(t *testing.T) {
	store, storage := testStore(t)

	next := []domain.PicklistEntry{
		{ID: "B1", Name: "KOHLER"},
		{ID: "B3", Name: "DELTA"},
	}
	previous, err := store.Replace(context.Background(), domain.PicklistTypeBrand, next)
	require.NoError(t, err)
	require.Len(t, previous, 2)
	assert.Equal(t, "B2", previous[1].ID)

	current := store.Get(domain.PicklistTypeBrand)
	require.Len(t, current, 2)
	assert.Equal(t, "B3", current[1].ID)

	// Persisted copy matches the swap.
	assert.Len(t, storage.collections[domain.PicklistTypeBrand], 2)
}

func TestStoreReplacePersistFailureLeavesStoreUnchanged(t *testing.T) {
	store, storage := testStore(t)
	storage.saveErr = errors.Internal("disk full")

	_, err := store.Replace(context.Background(), domain.PicklistTypeBrand, []domain.PicklistEntry{
		{ID: "B9", Name: "GROHE"},
	})
	require.Error(t, err)

	current := store.Get(domain.PicklistTypeBrand)
	require.Len(t, current, 2)
	assert.Equal(t, "B1", current[0].ID)
}

func TestStoreAdd(t *testing.T) {
	store, storage := testStore(t)

	err := store.Add(context.Background(), domain.PicklistTypeBrand, domain.PicklistEntry{ID: "B3", Name: "DELTA"})
	require.NoError(t, err)

	current := store.Get(domain.PicklistTypeBrand)
	require.Len(t, current, 3)
	assert.Len(t, storage.collections[domain.PicklistTypeBrand], 3)
}

func TestStoreAddDuplicateID(t *testing.T) {
	store, _ := testStore(t)

	err := store.Add(context.Background(), domain.PicklistTypeBrand, domain.PicklistEntry{ID: "B1", Name: "SOMETHING ELSE"})
	require.Error(t, err)

	var domainErr *errors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, errors.CodeConflict, domainErr.Code)
	assert.Len(t, store.Get(domain.PicklistTypeBrand), 2)
}

func TestStoreAddDuplicateNameCaseInsensitive(t *testing.T) {
	store, _ := testStore(t)

	err := store.Add(context.Background(), domain.PicklistTypeBrand, domain.PicklistEntry{ID: "B9", Name: "Kohler"})
	require.Error(t, err)

	var domainErr *errors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, errors.CodeConflict, domainErr.Code)
}

func TestStoreAddPersistFailureRollsBack(t *testing.T) {
	store, storage := testStore(t)
	storage.saveErr = errors.Internal("disk full")

	err := store.Add(context.Background(), domain.PicklistTypeBrand, domain.PicklistEntry{ID: "B3", Name: "DELTA"})
	require.Error(t, err)
	assert.Len(t, store.Get(domain.PicklistTypeBrand), 2)
}

func TestStoreCounts(t *testing.T) {
	store, _ := testStore(t)

	counts := store.Counts()
	assert.Equal(t, 2, counts[domain.PicklistTypeBrand])
	assert.Equal(t, 0, counts[domain.PicklistTypeCategory])
}
