// Package providers contains dependency injection providers for the picklist engine.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/config"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting picklist engine",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Storage.DataPath,
	)

	return log, nil
}
