package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// AppName names the per-user settings directory
const AppName = "weatherdesk"

// Config holds the runtime configuration of the weather client.
// User-facing settings (API key, last city) live in config.ini, not here.
type Config struct {
	// OpenWeatherMap endpoint root
	BaseURL string `env:"OWM_BASE_URL,default=https://api.openweathermap.org/data/2.5"`

	// Settings directory override; empty means <UserConfigDir>/weatherdesk
	ConfigDir   string `env:"WEATHERDESK_CONFIG_DIR"`
	DefaultCity string `env:"DEFAULT_CITY,default=Delhi"`

	// Zero disables the per-request timeout
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT,default=0s"`
	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS,default=1"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST,default=5"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	ForecastChartPath string `env:"FORECAST_CHART_PATH"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom loads configuration using the given lookuper
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the client cannot run with
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("OWM_BASE_URL must not be empty")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("HTTP_TIMEOUT must not be negative, got %s", c.HTTPTimeout)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", c.RateLimitRPS)
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimitBurst)
	}
	return nil
}
