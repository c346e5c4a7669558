// Package config provides configuration structures and loading for the fuel price exporter.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// MaxRadiusKm is the largest search radius the Tankerkönig API accepts.
const MaxRadiusKm = 25.0

// Config holds all configuration for the fuel price exporter.
type Config struct {
	// Location to search prices around. Either a coordinate string
	// ("52.52,13.40" or sexagesimal) or a free-text place name.
	Location string
	// RadiusKm is the search radius around the location in kilometers.
	RadiusKm float64
	// APIKey for the Tankerkönig API.
	APIKey string
	// UpdateInterval between price fetches, in seconds.
	UpdateInterval int
	// Namespace is the prefix for all exported metric names.
	Namespace string
	// ListenAddr is the HTTP server address for /metrics, /status.
	ListenAddr string
	// HTTPTimeout for outbound API calls.
	HTTPTimeout time.Duration
	// Log level (debug, info, warn, error)
	LogLevel string
	// Log format (json, console)
	LogFormat string
}

// DefaultConfig returns a Config with default values. The 300s interval
// matches the minimum the Tankerkönig API terms allow.
func DefaultConfig() *Config {
	return &Config{
		Location:       "",
		RadiusKm:       2.0,
		APIKey:         "",
		UpdateInterval: 300,
		Namespace:      "tanker_price",
		ListenAddr:     ":9501",
		HTTPTimeout:    30 * time.Second,
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// LoadFromEnv loads configuration from environment variables. A .env file in
// the working directory is read first if present.
func (c *Config) LoadFromEnv() {
	// Ignore a missing .env file, the environment may be set directly.
	_ = godotenv.Load()

	if v := os.Getenv("TANKER_LOCATION"); v != "" {
		c.Location = v
	}
	if v := os.Getenv("TANKER_RADIUS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RadiusKm = f
		}
	}
	if v := os.Getenv("TANKER_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("TANKER_UPDATE_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			c.UpdateInterval = i
		}
	}
	if v := os.Getenv("TANKER_NAMESPACE"); v != "" {
		c.Namespace = v
	}
	if v := os.Getenv("TANKER_LISTEN"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("TANKER_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTPTimeout = d
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
}

// Validate checks the configuration before the exporter starts. It runs
// before any network call so misconfiguration fails fast.
func (c *Config) Validate() error {
	if c.Location == "" {
		return fmt.Errorf("location is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("tankerkoenig API key is required")
	}
	if c.RadiusKm <= 0 {
		return fmt.Errorf("radius %g must be greater than 0", c.RadiusKm)
	}
	if c.RadiusKm > MaxRadiusKm {
		return fmt.Errorf("radius %g exceeds the Tankerkönig API maximum of %g km", c.RadiusKm, MaxRadiusKm)
	}
	if c.UpdateInterval <= 0 {
		return fmt.Errorf("update interval %d must be greater than 0 seconds", c.UpdateInterval)
	}
	if c.Namespace == "" {
		return fmt.Errorf("metrics namespace is required")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout %s must be greater than 0", c.HTTPTimeout)
	}
	return nil
}
