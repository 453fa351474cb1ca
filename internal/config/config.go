// Package config provides centralized configuration management.
// All FIABA_* environment lookups live here instead of being scattered
// across the codebase.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all fiaba environment settings.
type Config struct {
	// APIURL is the backend base URL, without the /api suffix (FIABA_API_URL)
	APIURL string

	// DataDir is where the session database lives (FIABA_DATA_DIR)
	DataDir string

	// PollInterval is the book-status polling interval (FIABA_POLL_INTERVAL, seconds)
	PollInterval time.Duration

	// SessionID overrides the stored session identifier, for scripting (FIABA_SESSION_ID)
	SessionID string

	// Debug enables debug-level logging (FIABA_DEBUG)
	Debug bool
}

const (
	defaultAPIURL       = "http://localhost:3001"
	defaultPollInterval = 4 * time.Second
)

var (
	cfg     *Config
	cfgOnce sync.Once
)

// Get returns the singleton configuration.
// Thread-safe, loads once on first call. A .env file in the working
// directory is honored but never overrides the real environment.
func Get() *Config {
	cfgOnce.Do(func() {
		_ = godotenv.Load()

		cfg = &Config{
			APIURL:       getEnvDefault("FIABA_API_URL", defaultAPIURL),
			DataDir:      dataDir(),
			PollInterval: pollInterval(),
			SessionID:    os.Getenv("FIABA_SESSION_ID"),
			Debug:        os.Getenv("FIABA_DEBUG") == "1",
		}
	})
	return cfg
}

// Reset clears the cached configuration (for testing).
func Reset() {
	cfgOnce = sync.Once{}
	cfg = nil
}

func dataDir() string {
	if v := os.Getenv("FIABA_DATA_DIR"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fiaba"
	}
	return filepath.Join(home, ".fiaba")
}

func pollInterval() time.Duration {
	v := os.Getenv("FIABA_POLL_INTERVAL")
	if v == "" {
		return defaultPollInterval
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return defaultPollInterval
	}
	return time.Duration(secs) * time.Second
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
