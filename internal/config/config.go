// Package config provides application configuration loaded from environment
// variables. The presence or absence of PORTAL_API_URL and PORTAL_PUSH_URL is
// the sole switch between live-backend and offline/mock modes.
package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	// APIBaseURL enables the remote gateway when non-empty.
	APIBaseURL string
	// PushURL enables the notification push channel when non-empty.
	PushURL string
	// StateDir is where the local store keeps its JSON blobs.
	StateDir string
	// Port, DatabaseDSN and Env configure the bundled mock API server.
	Port        string
	DatabaseDSN string
	Env         string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.APIBaseURL = os.Getenv("PORTAL_API_URL")
	cfg.PushURL = os.Getenv("PORTAL_PUSH_URL")
	cfg.StateDir = getEnv("PORTAL_STATE_DIR", defaultStateDir())
	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "file:portal.db")
	cfg.Env = getEnv("APP_ENV", "development")
	return cfg
}

func defaultStateDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".estate-portal"
	}
	return filepath.Join(base, "estate-portal")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}
