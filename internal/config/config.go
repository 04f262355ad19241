// Package config loads the optional nlbshelf config file. Credentials
// never live here; they come from the environment (see cmd/nlbshelf).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the tunable settings: API pacing, cache behaviour and
// extra source exclusions. Everything has a safe default so the file is
// entirely optional.
type Config struct {
	DatabasePath string

	RequestDelay time.Duration
	RetryWait    time.Duration
	MaxRetries   int
	Timeout      time.Duration

	CacheTTL       time.Duration
	ExcludeSources []string
}

const (
	defaultConfigPath   = "~/.config/nlbshelf/config.toml"
	defaultDatabasePath = "nlbshelf.db"

	defaultRequestDelay = time.Second
	defaultRetryWait    = 20 * time.Second
	defaultMaxRetries   = 3
	defaultTimeout      = 15 * time.Second
	defaultCacheTTL     = 30 * time.Minute
)

// Load locates and parses the config file, falling back to defaults
// when it is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	var raw struct {
		DatabasePath    string   `toml:"database_path"`
		RequestDelaySec float64  `toml:"request_delay_secs"`
		RetryWaitSec    float64  `toml:"retry_wait_secs"`
		MaxRetries      int      `toml:"max_retries"`
		TimeoutSec      float64  `toml:"timeout_secs"`
		CacheTTLSec     float64  `toml:"cache_ttl_secs"`
		ExcludeSources  []string `toml:"exclude_sources"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.DatabasePath); v != "" {
		cfg.DatabasePath = mustExpand(v)
	}
	if raw.RequestDelaySec > 0 {
		cfg.RequestDelay = secs(raw.RequestDelaySec)
	}
	if raw.RetryWaitSec > 0 {
		cfg.RetryWait = secs(raw.RetryWaitSec)
	}
	if raw.MaxRetries > 0 {
		cfg.MaxRetries = raw.MaxRetries
	}
	if raw.TimeoutSec > 0 {
		cfg.Timeout = secs(raw.TimeoutSec)
	}
	if raw.CacheTTLSec > 0 {
		cfg.CacheTTL = secs(raw.CacheTTLSec)
	}
	if len(raw.ExcludeSources) > 0 {
		cfg.ExcludeSources = raw.ExcludeSources
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		DatabasePath:   defaultDatabasePath,
		RequestDelay:   defaultRequestDelay,
		RetryWait:      defaultRetryWait,
		MaxRetries:     defaultMaxRetries,
		Timeout:        defaultTimeout,
		CacheTTL:       defaultCacheTTL,
		ExcludeSources: nil,
	}
}

func secs(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
