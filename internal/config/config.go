package config

import (
	"os"
)

// Backend names accepted in DEPOT_BACKEND.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

type Config struct {
	Environment string
	Backend     string // file | postgres
	DataFile    string // file backend: path of the snapshot document
	DatabaseURL string // postgres backend: connection string
	SnapshotKey string // postgres backend: key holding the snapshot
	TablePrefix string
	LogDir      string // when set, logs go to rotated files instead of stderr
	Debug       bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	databaseURL := getEnv("DATABASE_URL", "")

	// Backend selection mirrors deployment reality: an explicit choice wins,
	// otherwise the presence of a database URL selects the remote store.
	backend := getEnv("DEPOT_BACKEND", "")
	if backend == "" {
		if databaseURL != "" {
			backend = BackendPostgres
		} else {
			backend = BackendFile
		}
	}

	return &Config{
		Environment: env,
		Backend:     backend,
		DataFile:    getEnv("DEPOT_DATA_FILE", "data/store.json"),
		DatabaseURL: databaseURL,
		SnapshotKey: getEnv("DEPOT_SNAPSHOT_KEY", "store_data"),
		TablePrefix: getTablePrefix(env),
		LogDir:      getEnv("DEPOT_LOG_DIR", ""),
		Debug:       getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
