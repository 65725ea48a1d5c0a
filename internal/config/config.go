// ABOUTME: vitals configuration with backend and provider selection.
// ABOUTME: Loads JSON config, .env and VITALS_* overrides, then builds the store and provider.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/harperreed/vitals/internal/charm"
	"github.com/harperreed/vitals/internal/provider"
	"github.com/harperreed/vitals/internal/storage"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
	BackendBadger = "badger"
)

// Backends lists the supported storage backends.
var Backends = []string{BackendSQLite, BackendCharm, BackendBadger}

// Config stores vitals configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "charm" or "badger".
	Backend string `json:"backend,omitempty" validate:"omitempty,oneof=sqlite charm badger"`

	// DataDir is the root directory for data storage.
	// SQLite puts vitals.db here; Badger uses a badger/ folder inside it.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/vitals.
	DataDir string `json:"data_dir,omitempty"`

	// Provider selects the metrics source: "mock" (default), "inject" or "live".
	Provider string `json:"provider,omitempty" validate:"omitempty,oneof=mock inject live"`

	// MockLatency is a Go duration added to mock fetches, e.g. "200ms".
	MockLatency string `json:"mock_latency,omitempty"`

	LogLevel  string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn warning error disabled off none"`
	LogFormat string `json:"log_format,omitempty" validate:"omitempty,oneof=console json"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetProvider returns the configured provider kind, defaulting to mock.
func (c *Config) GetProvider() provider.Kind {
	if c.Provider == "" {
		return provider.KindMock
	}
	return provider.Kind(c.Provider)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetMockLatency parses MockLatency. Empty means no delay.
func (c *Config) GetMockLatency() (time.Duration, error) {
	if c.MockLatency == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.MockLatency)
	if err != nil {
		return 0, fmt.Errorf("mock_latency: %w", err)
	}
	return d, nil
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

// Validate checks enumerated fields and the latency duration.
func (c *Config) Validate() error {
	var errs []error
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = append(errs, fmt.Errorf("%s: %q is not one of [%s]", fe.Field(), fe.Value(), fe.Param()))
		}
	}
	if _, err := c.GetMockLatency(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// OpenStorage opens the configured backend.
func (c *Config) OpenStorage(log zerolog.Logger) (storage.Store, error) {
	return c.OpenBackend(c.GetBackend(), log)
}

// OpenBackend opens a named backend under the configured data directory.
func (c *Config) OpenBackend(backend string, log zerolog.Logger) (storage.Store, error) {
	dataDir := c.GetDataDir()

	switch backend {
	case BackendSQLite:
		dbPath := filepath.Join(dataDir, "vitals.db")
		return storage.Open(dbPath, storage.WithLogger(log))
	case BackendCharm:
		return charm.InitClient(log)
	case BackendBadger:
		dir := filepath.Join(dataDir, "badger")
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("create badger directory: %w", err)
		}
		return charm.OpenBadger(dir, log)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// OpenProvider builds the configured provider. The mock provider ignores store.
func (c *Config) OpenProvider(store storage.Store, log zerolog.Logger) (provider.Provider, error) {
	latency, err := c.GetMockLatency()
	if err != nil {
		return nil, err
	}
	return provider.New(c.GetProvider(), store,
		provider.WithLogger(log),
		provider.WithLatency(latency),
	)
}

// NeedsStore reports whether the configured provider reads a store.
func (c *Config) NeedsStore() bool {
	return c.GetProvider() != provider.KindMock
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "vitals", "config.json")
}

// Load reads .env, the config file and VITALS_* overrides, in that order of
// increasing precedence, and validates the result.
func Load() (*Config, error) {
	loadEnvFile()

	cfg, err := loadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile reads only the config file, without .env or VITALS_* overrides.
// Edits go through it so Save never persists environment values.
func LoadFile() (*Config, error) {
	return loadFile(GetConfigPath())
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// loadEnvFile loads .env from the working directory. Variables already set win.
func loadEnvFile() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VITALS_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("VITALS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("VITALS_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("VITALS_MOCK_LATENCY"); v != "" {
		cfg.MockLatency = v
	}
	if v := os.Getenv("VITALS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("VITALS_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Keys lists the settable config keys in file order.
var Keys = []string{"backend", "data_dir", "provider", "mock_latency", "log_level", "log_format"}

func (c *Config) field(key string) (*string, error) {
	switch key {
	case "backend":
		return &c.Backend, nil
	case "data_dir":
		return &c.DataDir, nil
	case "provider":
		return &c.Provider, nil
	case "mock_latency":
		return &c.MockLatency, nil
	case "log_level":
		return &c.LogLevel, nil
	case "log_format":
		return &c.LogFormat, nil
	}
	return nil, fmt.Errorf("unknown config key %q (want %s)", key, strings.Join(Keys, ", "))
}

// Get returns the raw value of key. Empty means the default applies.
func (c *Config) Get(key string) (string, error) {
	f, err := c.field(key)
	if err != nil {
		return "", err
	}
	return *f, nil
}

// Set assigns key and validates the result. An invalid value leaves c unchanged.
// An empty value clears the key back to its default.
func (c *Config) Set(key, value string) error {
	f, err := c.field(key)
	if err != nil {
		return err
	}
	old := *f
	*f = value
	if err := c.Validate(); err != nil {
		*f = old
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	return nil
}
