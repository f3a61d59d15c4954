// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Server   ServerConfig
	Storage  StorageConfig
	Picklist PicklistConfig
	Mismatch MismatchConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name         string
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// StorageConfig holds durable storage configuration.
type StorageConfig struct {
	// DataPath is the base directory for durable state. The badger picklist
	// store lives at {data}/picklists, the mismatch database at
	// {data}/mismatches.db.
	DataPath string
}

// PicklistConfig holds vocabulary loading configuration.
type PicklistConfig struct {
	// SeedPath is an optional directory of vendor JSON picklist files
	// (brands.json, categories.json, styles.json, attributes.json) used to
	// populate an empty store on first boot.
	SeedPath string
	// WatchSeeds enables the fsnotify watcher that reloads the vocabulary
	// when a seed file changes on disk (default: false).
	WatchSeeds bool
}

// MismatchConfig holds write-buffer tuning for the mismatch recorder.
type MismatchConfig struct {
	// FlushInterval is the timer-driven flush period (default: 10s).
	FlushInterval time.Duration
	// BufferSize is the queue depth that triggers an immediate flush (default: 50).
	BufferSize int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for durable storage")
	seedPath := flag.String("seed-path", "", "Directory of vendor JSON picklist files")
	watchSeeds := flag.String("watch-seeds", "", "Reload vocabulary when seed files change (default: false)")
	serverName := flag.String("server-name", "", "Name for the server")

	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	flushInterval := flag.String("flush-interval", "", "Mismatch buffer flush interval (default: 10s)")
	bufferSize := flag.String("buffer-size", "", "Mismatch buffer size threshold (default: 50)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Name: getConfigValue(*serverName, "SERVER_NAME", "Picklist Engine"),
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
		Storage: StorageConfig{
			DataPath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Picklist: PicklistConfig{
			SeedPath:   getConfigValue(*seedPath, "PICKLIST_SEED_PATH", ""),
			WatchSeeds: getBoolConfigValue(*watchSeeds, "PICKLIST_WATCH_SEEDS", false),
		},
		Mismatch: MismatchConfig{
			BufferSize: getIntConfigValue(*bufferSize, "MISMATCH_BUFFER_SIZE", 50),
		},
	}

	// Parse durations.
	readTimeoutStr := getConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	readTimeoutDuration, err := time.ParseDuration(readTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid read timeout %q: %w", readTimeoutStr, err)
	}
	cfg.Server.ReadTimeout = readTimeoutDuration

	writeTimeoutStr := getConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s")
	writeTimeoutDuration, err := time.ParseDuration(writeTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid write timeout %q: %w", writeTimeoutStr, err)
	}
	cfg.Server.WriteTimeout = writeTimeoutDuration

	idleTimeoutStr := getConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	idleTimeoutDuration, err := time.ParseDuration(idleTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout %q: %w", idleTimeoutStr, err)
	}
	cfg.Server.IdleTimeout = idleTimeoutDuration

	flushIntervalStr := getConfigValue(*flushInterval, "MISMATCH_FLUSH_INTERVAL", "10s")
	flushIntervalDuration, err := time.ParseDuration(flushIntervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid flush interval %q: %w", flushIntervalStr, err)
	}
	cfg.Mismatch.FlushInterval = flushIntervalDuration

	// Expand and validate the data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if cfg.Picklist.SeedPath != "" {
		expanded, err := expandPath(cfg.Picklist.SeedPath, "")
		if err != nil {
			return nil, fmt.Errorf("invalid seed path: %w", err)
		}
		cfg.Picklist.SeedPath = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Storage.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if c.Mismatch.BufferSize <= 0 {
		return fmt.Errorf("buffer size must be positive, got %d", c.Mismatch.BufferSize)
	}

	if c.Mismatch.FlushInterval <= 0 {
		return fmt.Errorf("flush interval must be positive, got %s", c.Mismatch.FlushInterval)
	}

	return nil
}

// PicklistDBPath returns the badger directory for picklist snapshots.
func (c *Config) PicklistDBPath() string {
	return filepath.Join(c.Storage.DataPath, "picklists")
}

// MismatchDBPath returns the sqlite file for mismatch and sync-log records.
func (c *Config) MismatchDBPath() string {
	return filepath.Join(c.Storage.DataPath, "mismatches.db")
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "picklist-engine", "data")

	expanded, err := expandPath(c.Storage.DataPath, defaultPath)
	if err != nil {
		return err
	}
	c.Storage.DataPath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
