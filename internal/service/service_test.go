package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/mismatch"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/picklist"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/store/sqlite"
)

// flakyStorage is an in-memory picklist.Storage that can be told to
// fail saves for specific types.
type flakyStorage struct {
	collections map[domain.PicklistType][]domain.PicklistEntry
	failTypes   map[domain.PicklistType]error
}

func newFlakyStorage() *flakyStorage {
	return &flakyStorage{
		collections: make(map[domain.PicklistType][]domain.PicklistEntry),
		failTypes:   make(map[domain.PicklistType]error),
	}
}

func (f *flakyStorage) LoadAll(_ context.Context) (map[domain.PicklistType][]domain.PicklistEntry, error) {
	out := make(map[domain.PicklistType][]domain.PicklistEntry, len(f.collections))
	for t, entries := range f.collections {
		out[t] = append([]domain.PicklistEntry(nil), entries...)
	}
	return out, nil
}

func (f *flakyStorage) Save(_ context.Context, t domain.PicklistType, entries []domain.PicklistEntry) error {
	if err := f.failTypes[t]; err != nil {
		return err
	}
	f.collections[t] = append([]domain.PicklistEntry(nil), entries...)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Writer: os.Stderr, Environment: "test", Level: slog.LevelError})
}

type testEnv struct {
	storage   *flakyStorage
	picklists *picklist.Store
	db        *sqlite.Store
	recorder  *mismatch.Recorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	storage := newFlakyStorage()
	storage.collections[domain.PicklistTypeBrand] = []domain.PicklistEntry{
		{ID: "B1", Name: "KOHLER"},
		{ID: "B2", Name: "MOEN"},
	}
	storage.collections[domain.PicklistTypeCategory] = []domain.PicklistEntry{
		{ID: "C1", Name: "Kitchen Faucet", Department: "Plumbing", Family: "Faucets"},
		{ID: "C3", Name: "Range", Department: "Appliances", Family: "Cooking"},
	}

	log := testLogger()
	picklists := picklist.New(storage, log)
	require.NoError(t, picklists.Load(context.Background()))

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	recorder := mismatch.NewRecorder(db, log, 50, time.Hour)

	return &testEnv{
		storage:   storage,
		picklists: picklists,
		db:        db,
		recorder:  recorder,
	}
}
