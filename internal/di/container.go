// Package di provides dependency injection configuration for the picklist engine.
package di

import (
	"github.com/samber/do/v2"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/config"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/di/providers"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/picklist"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSQLiteStore)
	do.Provide(injector, providers.ProvidePicklistStore)

	// Business services
	do.Provide(injector, providers.ProvideRecorder)
	do.Provide(injector, providers.ProvidePicklistService)
	do.Provide(injector, providers.ProvideMatchService)
	do.Provide(injector, providers.ProvideMismatchService)
	do.Provide(injector, providers.ProvideSyncService)

	// Workers
	do.Provide(injector, providers.ProvideSeedWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SQLiteHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*picklist.Store](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.RecorderHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.PicklistService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.MatchService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.MismatchService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.SyncService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SeedWatcherHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
