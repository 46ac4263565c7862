package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the space weather cache service.
// Every value has a working default so a bare `auroracast` run serves the
// public SWPC feeds with a local file cache.
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8982"`

	// Cache configuration
	CacheBackend string        `env:"CACHE_BACKEND,default=local"`
	CacheDir     string        `env:"CACHE_DIR,default=./static/data"`
	CacheObject  string        `env:"CACHE_OBJECT,default=space_weather_cache.json"`
	CacheMaxAge  time.Duration `env:"CACHE_MAX_AGE,default=120m"`

	// GCP configuration (only used with CACHE_BACKEND=gcs)
	GCSBucket string `env:"GCS_BUCKET"`

	// Fetch configuration
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,default=10s"`
	RefreshSchedule string        `env:"REFRESH_SCHEDULE,default=@hourly"`

	// Data source URLs
	Endpoints Endpoints `env:",prefix="`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=text"`
}

// Endpoints carries the five SWPC feed URLs. All are free, read-only, and
// need no API key. The 3-day text forecast endpoint is intentionally not
// listed; nothing consumes it.
type Endpoints struct {
	PlasmaURL string `env:"SWPC_PLASMA_URL,default=https://services.swpc.noaa.gov/products/solar-wind/plasma-2-hour.json"`
	MagURL    string `env:"SWPC_MAG_URL,default=https://services.swpc.noaa.gov/products/solar-wind/mag-2-hour.json"`
	KpURL     string `env:"SWPC_KP_URL,default=https://services.swpc.noaa.gov/products/noaa-planetary-k-index.json"`
	ScalesURL string `env:"SWPC_SCALES_URL,default=https://services.swpc.noaa.gov/products/noaa-scales.json"`
	AlertsURL string `env:"SWPC_ALERTS_URL,default=https://services.swpc.noaa.gov/products/alerts.json"`
}

// Load loads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}
