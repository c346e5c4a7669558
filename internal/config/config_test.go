package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Location = "Berlin"
	cfg.APIKey = "00000000-0000-0000-0000-000000000000"
	return cfg
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config failed validation: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"missing location", func(c *Config) { c.Location = "" }, "location"},
		{"missing api key", func(c *Config) { c.APIKey = "" }, "API key"},
		{"zero radius", func(c *Config) { c.RadiusKm = 0 }, "greater than 0"},
		{"negative radius", func(c *Config) { c.RadiusKm = -1 }, "greater than 0"},
		{"radius over API maximum", func(c *Config) { c.RadiusKm = 30 }, "maximum"},
		{"zero interval", func(c *Config) { c.UpdateInterval = 0 }, "update interval"},
		{"negative interval", func(c *Config) { c.UpdateInterval = -60 }, "update interval"},
		{"empty namespace", func(c *Config) { c.Namespace = "" }, "namespace"},
		{"empty listen address", func(c *Config) { c.ListenAddr = "" }, "listen address"},
		{"zero http timeout", func(c *Config) { c.HTTPTimeout = 0 }, "http timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TANKER_LOCATION", "52.52,13.40")
	t.Setenv("TANKER_RADIUS", "10.5")
	t.Setenv("TANKER_API_KEY", "test-key")
	t.Setenv("TANKER_UPDATE_INTERVAL", "600")
	t.Setenv("TANKER_NAMESPACE", "fuel")
	t.Setenv("TANKER_LISTEN", ":9000")
	t.Setenv("TANKER_HTTP_TIMEOUT", "10s")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	if cfg.Location != "52.52,13.40" {
		t.Errorf("Location = %q, want %q", cfg.Location, "52.52,13.40")
	}
	if cfg.RadiusKm != 10.5 {
		t.Errorf("RadiusKm = %g, want 10.5", cfg.RadiusKm)
	}
	if cfg.APIKey != "test-key" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "test-key")
	}
	if cfg.UpdateInterval != 600 {
		t.Errorf("UpdateInterval = %d, want 600", cfg.UpdateInterval)
	}
	if cfg.Namespace != "fuel" {
		t.Errorf("Namespace = %q, want %q", cfg.Namespace, "fuel")
	}
	if cfg.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, ":9000")
	}
	if cfg.HTTPTimeout.Seconds() != 10 {
		t.Errorf("HTTPTimeout = %s, want 10s", cfg.HTTPTimeout)
	}
}

func TestLoadFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("TANKER_RADIUS", "not-a-number")
	t.Setenv("TANKER_UPDATE_INTERVAL", "soon")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	if cfg.RadiusKm != 2.0 {
		t.Errorf("RadiusKm = %g, want default 2.0", cfg.RadiusKm)
	}
	if cfg.UpdateInterval != 300 {
		t.Errorf("UpdateInterval = %d, want default 300", cfg.UpdateInterval)
	}
}
