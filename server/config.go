package server

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the HTTP server configuration, populated from COMPSCREEN_*
// environment variables.
type Config struct {
	// Addr is the listen address
	Addr string `envconfig:"ADDR" default:":8080"`
	// DatabasePath is the SQLite session store location
	DatabasePath string `envconfig:"DATABASE_PATH" default:"compscreen.db"`
	// ChartBaseURL is the upstream price-history service; empty disables
	// upstream fetches and serves mock series only
	ChartBaseURL string `envconfig:"CHART_BASE_URL" default:""`
	// ChartTimeout bounds upstream chart fetches
	ChartTimeout time.Duration `envconfig:"CHART_TIMEOUT" default:"5s"`
	// MaxUploadBytes caps accepted upload sizes
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"33554432"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("compscreen", &cfg); err != nil {
		return Config{}, fmt.Errorf("server: failed to load config: %w", err)
	}
	return cfg, nil
}
