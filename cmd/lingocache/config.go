package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ZaguanLabs/lingocache"
)

// Config is the CLI configuration, loadable from a YAML file.
type Config struct {
	Cache    CacheConfig    `yaml:"cache"`
	Provider ProviderConfig `yaml:"provider"`
}

// CacheConfig configures the translation cache and its backing database.
type CacheConfig struct {
	Path              string `yaml:"path"`
	MaxEntries        int64  `yaml:"max_entries"`
	TTLDays           int    `yaml:"ttl_days"`
	AggressiveTTLDays int    `yaml:"aggressive_ttl_days"`
	DefaultModel      string `yaml:"default_model"`
}

// ProviderConfig configures the OpenAI provider.
type ProviderConfig struct {
	APIKey            string  `yaml:"api_key"`
	Model             string  `yaml:"model"`
	BaseURL           string  `yaml:"base_url"`
	Temperature       float32 `yaml:"temperature"`
	RequestsPerMinute int     `yaml:"requests_per_minute"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Path:              "lingocache.db",
			MaxEntries:        lingocache.DefaultMaxEntries,
			TTLDays:           lingocache.DefaultTTLDays,
			AggressiveTTLDays: lingocache.DefaultAggressiveTTLDays,
			DefaultModel:      lingocache.DefaultModel,
		},
		Provider: ProviderConfig{
			Model:             lingocache.DefaultModel,
			RequestsPerMinute: 60,
		},
	}
}

// LoadConfig returns the defaults overlaid with the YAML file at path.
// An empty path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Cache.Path == "" {
		return cfg, fmt.Errorf("config: cache.path must not be empty")
	}
	if cfg.Cache.MaxEntries <= 0 {
		return cfg, fmt.Errorf("config: cache.max_entries must be positive")
	}
	return cfg, nil
}
