package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/config"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/picklist"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/store/jsonfile"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/watcher"
)

// SeedWatcherHandle wraps the seed directory watcher. The watcher is nil
// when seed watching is disabled.
type SeedWatcherHandle struct {
	*watcher.Watcher
}

// Shutdown implements do.Shutdownable.
func (h *SeedWatcherHandle) Shutdown() error {
	if h.Watcher != nil {
		h.Stop()
	}
	return nil
}

// ProvideSeedWatcher provides the fsnotify seed watcher, started when
// configured. Each settled burst of seed writes replaces the affected
// collections wholesale, same as a bulk sync.
func ProvideSeedWatcher(i do.Injector) (*SeedWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	picklists := do.MustInvoke[*picklist.Store](i)

	if !cfg.Picklist.WatchSeeds || cfg.Picklist.SeedPath == "" {
		return &SeedWatcherHandle{}, nil
	}

	seeds := jsonfile.New(cfg.Picklist.SeedPath)
	reload := func(ctx context.Context) error {
		collections, err := seeds.LoadAll(ctx)
		if err != nil {
			return err
		}
		for t, entries := range collections {
			if _, err := picklists.Replace(ctx, t, entries); err != nil {
				return err
			}
		}
		return nil
	}

	w, err := watcher.New(cfg.Picklist.SeedPath, reload, log)
	if err != nil {
		return nil, err
	}
	w.Start()

	return &SeedWatcherHandle{Watcher: w}, nil
}
