package config

import (
	"equity-portfolio-tracker/pkg/config"
)

// Valuation holds tuning for the valuation service's snapshot cache.
type Valuation struct {
	SnapshotCacheTTL     string `mapstructure:"snapshot_cache_ttl"`
	SnapshotCacheCleanup string `mapstructure:"snapshot_cache_cleanup"`
}

// Config holds the full configuration for the API service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	Valuation Valuation       `mapstructure:"valuation"`
}

// Load loads the API service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
