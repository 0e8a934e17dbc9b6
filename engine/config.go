package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CacheConfig controls the optional query-result cache.
type CacheConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxEntries int  `yaml:"max_entries"`
}

// Config holds the engine tuning knobs. The zero value is usable; New
// normalizes it through DefaultConfig.
type Config struct {
	// Workers bounds the evaluation goroutines; <= 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
	// ChunkSize is the number of observer points per parallel work item.
	ChunkSize int         `yaml:"chunk_size"`
	Cache     CacheConfig `yaml:"cache"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Workers:   0,
		ChunkSize: 1024,
		Cache: CacheConfig{
			Enabled:    false,
			MaxEntries: 64,
		},
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg.normalized(), nil
}

// normalized clamps out-of-range values to usable ones.
func (c Config) normalized() Config {
	if c.ChunkSize < 1 {
		c.ChunkSize = DefaultConfig().ChunkSize
	}
	if c.Cache.MaxEntries < 1 {
		c.Cache.MaxEntries = DefaultConfig().Cache.MaxEntries
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultConfig().LogLevel
	}
	return c
}
