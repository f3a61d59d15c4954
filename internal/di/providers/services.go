package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/config"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/mismatch"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/picklist"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/service"
)

// RecorderHandle wraps the mismatch recorder with shutdown capability.
// Shutdown drains the write buffer before the stores close behind it.
type RecorderHandle struct {
	*mismatch.Recorder
}

// Shutdown implements do.Shutdownable.
func (h *RecorderHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Close(ctx)
}

// ProvideRecorder provides the buffered mismatch recorder, started.
func ProvideRecorder(i do.Injector) (*RecorderHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	dbHandle := do.MustInvoke[*SQLiteHandle](i)

	recorder := mismatch.NewRecorder(dbHandle.Store, log, cfg.Mismatch.BufferSize, cfg.Mismatch.FlushInterval)
	recorder.Start()

	log.Info("mismatch recorder started",
		"buffer_size", cfg.Mismatch.BufferSize,
		"flush_interval", cfg.Mismatch.FlushInterval,
	)

	return &RecorderHandle{Recorder: recorder}, nil
}

// ProvidePicklistService provides the vocabulary read/add service.
func ProvidePicklistService(i do.Injector) (*service.PicklistService, error) {
	picklists := do.MustInvoke[*picklist.Store](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPicklistService(picklists, log), nil
}

// ProvideMatchService provides the candidate matching service.
func ProvideMatchService(i do.Injector) (*service.MatchService, error) {
	picklists := do.MustInvoke[*picklist.Store](i)
	recorderHandle := do.MustInvoke[*RecorderHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMatchService(picklists, recorderHandle.Recorder, log), nil
}

// ProvideMismatchService provides the mismatch review service.
func ProvideMismatchService(i do.Injector) (*service.MismatchService, error) {
	dbHandle := do.MustInvoke[*SQLiteHandle](i)
	recorderHandle := do.MustInvoke[*RecorderHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMismatchService(dbHandle.Store, recorderHandle.Recorder, log), nil
}

// ProvideSyncService provides the bulk-sync service.
func ProvideSyncService(i do.Injector) (*service.SyncService, error) {
	picklists := do.MustInvoke[*picklist.Store](i)
	dbHandle := do.MustInvoke[*SQLiteHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSyncService(picklists, dbHandle.Store, log), nil
}
