package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"aura/internal/history"
	"aura/internal/service"
)

// Environment variables read by Load.
const (
	EnvDataDir        = "AURA_DATA_DIR"
	EnvStoreURL       = "AURA_STORE"
	EnvSessionKey     = "AURA_SESSION_KEY"
	EnvHistoryCap     = "AURA_HISTORY_CAP"
	EnvPersistHistory = "AURA_PERSIST_HISTORY"
)

// Config holds the settings of one editing session.
type Config struct {
	// DataDir holds the default sqlite database and exports.
	DataDir string
	// StoreURL selects the KV backend, see storage.Open. Empty means the
	// sqlite file aura.db under DataDir.
	StoreURL string
	// SessionKey is the key the document is persisted under.
	SessionKey string
	// HistoryCap bounds the undo timeline.
	HistoryCap int
	// PersistHistory also stores the timeline so undo survives restarts.
	PersistHistory bool
}

// Default returns the built-in configuration.
func Default() Config {
	homeDir, _ := os.UserHomeDir()
	return Config{
		DataDir:    filepath.Join(homeDir, ".local", "share", "aura"),
		SessionKey: service.DefaultSessionKey,
		HistoryCap: history.DefaultCap,
	}
}

// Load returns Default overridden by AURA_* variables from getenv.
// Pass os.Getenv in production.
func Load(getenv func(string) string) (Config, error) {
	cfg := Default()
	if v := getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := getenv(EnvStoreURL); v != "" {
		cfg.StoreURL = v
	}
	if v := getenv(EnvSessionKey); v != "" {
		cfg.SessionKey = v
	}
	if v := getenv(EnvHistoryCap); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", EnvHistoryCap, err)
		}
		cfg.HistoryCap = n
	}
	if v := getenv(EnvPersistHistory); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", EnvPersistHistory, err)
		}
		cfg.PersistHistory = b
	}
	return cfg, cfg.Validate()
}

// Validate reports settings that cannot start a session.
func (c Config) Validate() error {
	if c.HistoryCap < 1 {
		return fmt.Errorf("history cap must be at least 1, got %d", c.HistoryCap)
	}
	if c.SessionKey == "" {
		return fmt.Errorf("session key is empty")
	}
	if c.StoreURL == "" && c.DataDir == "" {
		return fmt.Errorf("no store: set a data directory or a store url")
	}
	return nil
}

// Store returns the storage URL to open.
func (c Config) Store() string {
	if c.StoreURL != "" {
		return c.StoreURL
	}
	return filepath.Join(c.DataDir, "aura.db")
}

// ExportPath returns the default HTML export location.
func (c Config) ExportPath() string {
	return filepath.Join(c.DataDir, "export", "index.html")
}
