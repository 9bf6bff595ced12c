package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "URWORLD_"

type Config struct {
	VaultPath     string
	StateDir      string
	StorageDir    string
	SessionDir    string
	DBPath        string
	CatalogPath   string
	ReportPath    string
	AttemptsDir   string
	ExportDir     string
	LogLevel      string
	LogFormat     string
	WatchInterval time.Duration
}

// Load resolves configuration for a vault. Process environment wins over
// <vault>/.env, which wins over defaults.
func Load(vaultPath string) (Config, error) {
	if strings.TrimSpace(vaultPath) == "" {
		return Config{}, fmt.Errorf("vault path is required")
	}
	dotenv, err := readDotenv(filepath.Join(vaultPath, ".env"))
	if err != nil {
		return Config{}, err
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			return v, true
		}
		v, ok := dotenv[envPrefix+key]
		return v, ok
	}

	state := filepath.Join(vaultPath, ".urworld")
	cfg := Config{
		VaultPath:     vaultPath,
		StateDir:      state,
		StorageDir:    filepath.Join(state, "storage"),
		SessionDir:    filepath.Join(state, "session"),
		DBPath:        filepath.Join(state, "urworld.db"),
		CatalogPath:   envStr(lookup, "CATALOG", filepath.Join(vaultPath, "catalog.yaml")),
		ReportPath:    filepath.Join(vaultPath, "progress.md"),
		AttemptsDir:   filepath.Join(vaultPath, "attempts"),
		ExportDir:     envStr(lookup, "EXPORT_DIR", vaultPath),
		LogLevel:      envStr(lookup, "LOG_LEVEL", "info"),
		LogFormat:     envStr(lookup, "LOG_FORMAT", "text"),
		WatchInterval: envDuration(lookup, "WATCH_INTERVAL", 2*time.Second),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%sLOG_LEVEL must be debug|info|warn|error, got %q", envPrefix, c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%sLOG_FORMAT must be text|json, got %q", envPrefix, c.LogFormat)
	}
	if c.WatchInterval <= 0 {
		return fmt.Errorf("%sWATCH_INTERVAL must be positive", envPrefix)
	}
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

type lookupFunc func(key string) (string, bool)

func envStr(lookup lookupFunc, key, fallback string) string {
	if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func envInt(lookup lookupFunc, key string, fallback int) int {
	v, ok := lookup(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(lookup lookupFunc, key string, fallback time.Duration) time.Duration {
	v, ok := lookup(key)
	if !ok {
		return fallback
	}
	if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
		return d
	}
	// Bare integers are read as seconds.
	if secs := envInt(lookup, key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
