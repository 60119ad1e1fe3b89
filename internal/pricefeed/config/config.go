package config

import (
	"equity-portfolio-tracker/pkg/config"
)

// PriceFeed holds the price refresh worker's settings.
type PriceFeed struct {
	Schedule            string `mapstructure:"schedule"`
	QuoteBaseURL        string `mapstructure:"quote_base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	PriceCacheTTL       string `mapstructure:"price_cache_ttl"`
}

// Config holds the full configuration for the price feed service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	PriceFeed PriceFeed       `mapstructure:"price_feed"`
}

// Load loads the price feed configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
