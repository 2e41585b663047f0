// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendFirebase = "firebase"
	BackendFile     = "file"
)

// Config holds the application configuration.
type Config struct {
	StoreBackend            string
	FirebaseDatabaseURL     string
	FirebaseCredentialsFile string
	FirebaseCredentialsJSON string
	StoreFilePath           string
	EventsPath              string
	DevicePath              string
	DatabasePath            string
	LogPath                 string
	LogLevel                string
	ExportDir               string
	DeviceUnits             []string
	RemoteTimeout           time.Duration
	RefreshInterval         time.Duration
	AuditRetention          time.Duration
	HistogramBinWidth       float64
	HistogramBinMax         float64
}

// Default values
const (
	defaultEventsPath      = "handwashing"
	defaultDevicePath      = "LED"
	defaultRemoteTimeout   = 8 * time.Second
	defaultAuditRetention  = 30 * 24 * time.Hour
	defaultBinWidth        = 2.0
	defaultBinMax          = 30.0
	defaultLogLevel        = "info"
	defaultExportDir       = "export"
	defaultDeviceUnitsList = "1,2,3,4,5"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		StoreBackend:            strings.ToLower(getEnvString("STORE_BACKEND", BackendFirebase)),
		FirebaseDatabaseURL:     getEnvString("FIREBASE_DB_URL", ""),
		FirebaseCredentialsFile: getEnvString("FIREBASE_CREDENTIALS_FILE", ""),
		FirebaseCredentialsJSON: getEnvString("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		StoreFilePath:           getEnvString("STORE_FILE", ""),
		EventsPath:              getEnvString("EVENTS_PATH", defaultEventsPath),
		DevicePath:              getEnvString("DEVICE_PATH", defaultDevicePath),
		DatabasePath:            getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		LogPath:                 getEnvString("LOG_PATH", getDefaultLogPath()),
		LogLevel:                getEnvString("LOG_LEVEL", defaultLogLevel),
		ExportDir:               getEnvString("EXPORT_DIR", defaultExportDir),
		DeviceUnits:             getEnvList("DEVICE_UNITS", defaultDeviceUnitsList),
		RemoteTimeout:           getEnvDuration("REMOTE_TIMEOUT", defaultRemoteTimeout),
		RefreshInterval:         getEnvDuration("REFRESH_INTERVAL", 0),
		AuditRetention:          getEnvDuration("AUDIT_RETENTION", defaultAuditRetention),
		HistogramBinWidth:       getEnvFloat("HISTOGRAM_BIN_WIDTH", defaultBinWidth),
		HistogramBinMax:         getEnvFloat("HISTOGRAM_BIN_MAX", defaultBinMax),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	// Ensure log directory exists
	if err := ensureDir(filepath.Dir(cfg.LogPath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks backend-specific requirements.
func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendFirebase:
		if c.FirebaseDatabaseURL == "" {
			return fmt.Errorf("FIREBASE_DB_URL is required for the firebase backend")
		}
		if c.FirebaseCredentialsFile == "" && c.FirebaseCredentialsJSON == "" {
			return fmt.Errorf(
				"FIREBASE_CREDENTIALS_FILE or FIREBASE_SERVICE_ACCOUNT_JSON is required for the firebase backend")
		}
	case BackendFile:
		if c.StoreFilePath == "" {
			return fmt.Errorf("STORE_FILE is required for the file backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want %s or %s)", c.StoreBackend, BackendFirebase, BackendFile)
	}

	if len(c.DeviceUnits) == 0 {
		return fmt.Errorf("DEVICE_UNITS must list at least one unit")
	}
	if c.RemoteTimeout <= 0 {
		return fmt.Errorf("REMOTE_TIMEOUT must be positive")
	}
	if c.HistogramBinWidth <= 0 || c.HistogramBinMax < c.HistogramBinWidth {
		return fmt.Errorf("histogram bins need 0 < HISTOGRAM_BIN_WIDTH <= HISTOGRAM_BIN_MAX")
	}
	return nil
}

// StoreLocation returns a human readable description of the remote store.
func (c *Config) StoreLocation() string {
	if c.StoreBackend == BackendFile {
		return c.StoreFilePath
	}
	return c.FirebaseDatabaseURL
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "hwd", ".env"),
			filepath.Join(home, ".hwd", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the audit database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "audit.db"
	}
	return filepath.Join(home, ".config", "hwd", "audit.db")
}

// getDefaultLogPath returns the default path for the log file.
func getDefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "hwd.log"
	}
	return filepath.Join(home, ".config", "hwd", "hwd.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key, defaultValue string) []string {
	var items []string
	for _, item := range strings.Split(getEnvString(key, defaultValue), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
