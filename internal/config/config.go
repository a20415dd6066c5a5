package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration.
type Config struct {
	// Tab source selection
	Source     string // "extension", "firefox", or "cdp"
	Port       int    // WebSocket port for the extension source
	ProfileDir string // Firefox profile directory; empty = auto-discover
	CDPURL     string // DevTools HTTP endpoint for the cdp source

	// Favorites backend
	Backend   string // "sqlite", "redis", or "memory"
	DBPath    string
	RedisAddr string

	// Export
	ExportDir string

	// Logging
	LogDir string
}

// Load reads configuration from environment variables and an optional
// .env file. Missing values fall back to defaults.
func Load() *Config {
	godotenv.Load()

	return &Config{
		Source:     getEnvOrDefault("ONEHANDLE_SOURCE", "extension"),
		Port:       getEnvIntOrDefault("ONEHANDLE_PORT", 19292),
		ProfileDir: os.Getenv("ONEHANDLE_PROFILE_DIR"),
		CDPURL:     getEnvOrDefault("ONEHANDLE_CDP_URL", "http://127.0.0.1:9222"),
		Backend:    getEnvOrDefault("ONEHANDLE_BACKEND", "sqlite"),
		DBPath:     getEnvOrDefault("ONEHANDLE_DB_PATH", defaultDBPath()),
		RedisAddr:  getEnvOrDefault("ONEHANDLE_REDIS_ADDR", "localhost:6379"),
		ExportDir:  getEnvOrDefault("ONEHANDLE_EXPORT_DIR", "."),
		LogDir:     getEnvOrDefault("ONEHANDLE_LOG_DIR", defaultLogDir()),
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "onehandle.db"
	}
	return filepath.Join(home, ".local", "share", "onehandle", "onehandle.db")
}

func defaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "onehandle")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
