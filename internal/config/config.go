package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures optional run overrides from rigup.yaml. Every field has a
// working default; the file is not required.
type Config struct {
	Version   int             `yaml:"version"`
	Staging   StagingConfig   `yaml:"staging"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Downloads DownloadsConfig `yaml:"downloads"`
}

// StagingConfig controls where transient artifacts and logs land.
type StagingConfig struct {
	Dir string `yaml:"dir"`
}

// CatalogConfig points at an optional catalog override file.
type CatalogConfig struct {
	File string `yaml:"file"`
}

// DownloadsConfig bounds network transfers. The original design had no
// timeout; one hung mirror would stall the whole run.
type DownloadsConfig struct {
	TimeoutMinutes int `yaml:"timeout_minutes"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Downloads: DownloadsConfig{
			TimeoutMinutes: 10,
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures nested fields fall back to sensible defaults when the
// YAML omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Downloads.TimeoutMinutes <= 0 {
		c.Downloads.TimeoutMinutes = defaults.Downloads.TimeoutMinutes
	}
}
