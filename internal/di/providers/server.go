package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/api"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/config"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/picklist"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server, listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	picklists := do.MustInvoke[*picklist.Store](i)
	dbHandle := do.MustInvoke[*SQLiteHandle](i)

	services := &api.Services{
		Picklist: do.MustInvoke[*service.PicklistService](i),
		Match:    do.MustInvoke[*service.MatchService](i),
		Mismatch: do.MustInvoke[*service.MismatchService](i),
		Sync:     do.MustInvoke[*service.SyncService](i),
	}

	handler := api.NewServer(picklists, dbHandle.Store, services, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
