package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/config"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/picklist"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/store"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/store/jsonfile"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/store/sqlite"
)

// StoreHandle wraps the badger picklist store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the durable picklist snapshot store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := cfg.PicklistDBPath()
	db, err := store.New(dbPath, log)
	if err != nil {
		return nil, err
	}

	log.Info("picklist store initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// SQLiteHandle wraps the mismatch database with shutdown capability.
type SQLiteHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *SQLiteHandle) Shutdown() error {
	return h.Close()
}

// ProvideSQLiteStore provides the mismatch and sync-log database.
func ProvideSQLiteStore(i do.Injector) (*SQLiteHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := cfg.MismatchDBPath()
	db, err := sqlite.Open(dbPath, log)
	if err != nil {
		return nil, err
	}

	log.Info("mismatch database initialized", "path", dbPath)

	return &SQLiteHandle{Store: db}, nil
}

// ProvidePicklistStore provides the in-memory vocabulary, loaded from
// durable storage. An empty store is seeded from the vendor JSON seed
// directory when one is configured.
func ProvidePicklistStore(i do.Injector) (*picklist.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	ctx := context.Background()
	picklists := picklist.New(storeHandle.Store, log)
	if err := picklists.Load(ctx); err != nil {
		return nil, err
	}

	total := 0
	for _, count := range picklists.Counts() {
		total += count
	}

	if total == 0 && cfg.Picklist.SeedPath != "" {
		log.Info("picklist store empty, importing seeds", "dir", cfg.Picklist.SeedPath)

		seeds, err := jsonfile.New(cfg.Picklist.SeedPath).LoadAll(ctx)
		if err != nil {
			return nil, err
		}
		for t, entries := range seeds {
			if _, err := picklists.Replace(ctx, t, entries); err != nil {
				return nil, err
			}
		}
	}

	log.Info("vocabulary loaded", "counts", picklists.Counts())

	return picklists, nil
}
