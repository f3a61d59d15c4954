// Package main provides the entry point for the picklist engine server.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/di"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/di/providers"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	// Get logger for shutdown messages
	log := do.MustInvoke[*logger.Logger](injector)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// Shutdown all services in reverse order
	// The DI container handles shutdown order automatically
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	// The stores use wrapper handles, so close them explicitly in case
	// the container missed them.
	if dbHandle, err := do.Invoke[*providers.SQLiteHandle](injector); err == nil {
		if err := dbHandle.Shutdown(); err != nil {
			log.Error("Failed to close mismatch database", "error", err)
		}
	}
	if storeHandle, err := do.Invoke[*providers.StoreHandle](injector); err == nil {
		if err := storeHandle.Shutdown(); err != nil {
			log.Error("Failed to close picklist store", "error", err)
		}
	}

	log.Info("Shutdown complete")
}
