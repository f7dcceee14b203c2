// ABOUTME: Configuration management with storage backend selection
// ABOUTME: Handles settings, preferences, and storage backend factory function

package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harper/podfeed/internal/storage"
)

// Backend names accepted in the config file.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendYAML     = "yaml"
)

// Backends lists the supported storage backends in display order.
var Backends = []string{BackendSQLite, BackendPostgres, BackendYAML}

// Config stores podfeed configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "postgres" or "yaml".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts podfeed.db here. YAML puts podcasts.yaml here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/podfeed.
	DataDir string `json:"data_dir,omitempty"`

	// PostgresDSN is required when Backend is "postgres".
	// PODFEED_POSTGRES_DSN overrides it.
	PostgresDSN string `json:"postgres_dsn,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty"`

	// HTTPTimeout is a Go duration string such as "30s".
	HTTPTimeout string `json:"http_timeout,omitempty"`

	// ImportConcurrency bounds parallel fetches during OPML import.
	ImportConcurrency int `json:"import_concurrency,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DefaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetPostgresDSN returns the DSN, preferring the environment.
func (c *Config) GetPostgresDSN() string {
	if dsn := os.Getenv("PODFEED_POSTGRES_DSN"); dsn != "" {
		return dsn
	}
	return c.PostgresDSN
}

// GetLogLevel returns the configured log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return DefaultLogLevel
	}
	return c.LogLevel
}

// GetHTTPTimeout parses HTTPTimeout, falling back to DefaultHTTPTimeout
// when it is empty or invalid.
func (c *Config) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout == "" {
		return DefaultHTTPTimeout
	}
	d, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil || d <= 0 {
		return DefaultHTTPTimeout
	}
	return d
}

// GetImportConcurrency returns the import worker limit.
func (c *Config) GetImportConcurrency() int {
	if c.ImportConcurrency <= 0 {
		return DefaultImportConcurrency
	}
	return c.ImportConcurrency
}

// Validate checks field values without touching the filesystem.
func (c *Config) Validate() error {
	switch c.GetBackend() {
	case BackendSQLite, BackendYAML:
	case BackendPostgres:
		if c.GetPostgresDSN() == "" {
			return fmt.Errorf("postgres backend requires postgres_dsn")
		}
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	if c.HTTPTimeout != "" {
		if _, err := time.ParseDuration(c.HTTPTimeout); err != nil {
			return fmt.Errorf("invalid http_timeout %q: %w", c.HTTPTimeout, err)
		}
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Store implementation based on the configured backend.
func (c *Config) OpenStorage(ctx context.Context) (storage.Store, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	dataDir := c.GetDataDir()
	switch c.GetBackend() {
	case BackendPostgres:
		return storage.NewPostgresStore(ctx, storage.PostgresConfig{
			DSN:          c.GetPostgresDSN(),
			MaxOpenConns: DefaultPostgresMaxConns,
			MaxIdleConns: DefaultPostgresMaxConns / 2,
			ConnMaxIdle:  5 * time.Minute,
			ConnMaxLife:  30 * time.Minute,
		})
	case BackendYAML:
		return storage.NewYAMLStore(dataDir)
	default:
		return storage.NewSQLiteStore(filepath.Join(dataDir, DBFilename))
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "podfeed", "config.json")
}

// Load reads config from disk. A missing file yields defaults, which are saved.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := defaultFirstRunConfig()
			if saveErr := cfg.Save(); saveErr != nil {
				fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return storage.AtomicWrite(GetConfigPath(), data, 0600)
}

// DefaultDataDir returns the standard XDG data directory for podfeed.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "podfeed")
}

// defaultFirstRunConfig returns the config for a first run. An existing
// podcasts.yaml keeps the YAML backend; otherwise SQLite is used.
func defaultFirstRunConfig() *Config {
	_, err := os.Stat(filepath.Join(DefaultDataDir(), YAMLFilename))
	switch {
	case err == nil:
		return &Config{Backend: BackendYAML}
	case !os.IsNotExist(err):
		fmt.Fprintf(os.Stderr, "warning: could not check for existing data: %v\n", err)
	}
	return &Config{Backend: BackendSQLite}
}
