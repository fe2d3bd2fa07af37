// Package config loads the process settings from the environment and
// the rating model and competition selectors from a YAML file.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// YAML rating model and competition selectors
	ConfigPath string

	// Inputs
	DataDir    string
	SheetsPath string

	// Snapshot database, disabled when empty
	DBPath string

	StrictSheets bool
	Strategy     string

	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	dataDir := envStr("DATA_DIR", "data")
	return &Config{
		ConfigPath:   envStr("VOLLEYRANK_CONFIG", filepath.Join(dataDir, "volleyrank.yaml")),
		DataDir:      dataDir,
		SheetsPath:   envStr("SHEETS_PATH", ""),
		DBPath:       envStr("DB_PATH", ""),
		StrictSheets: envBool("STRICT_SHEETS", false),
		Strategy:     envStr("RATING_STRATEGY", "set"),
		LogLevel:     envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
