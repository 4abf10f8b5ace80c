package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		JWTSecret:        "a-perfectly-long-development-secret!",
		Port:             "8375",
		Env:              "development",
		PageSize:         10,
		FeedCacheTTLSecs: 20,
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "MissingPort", mutate: func(c *Config) { c.Port = "" }},
		{name: "MissingJWTSecret", mutate: func(c *Config) { c.JWTSecret = "" }},
		{name: "ZeroPageSize", mutate: func(c *Config) { c.PageSize = 0 }},
		{name: "NegativePageSize", mutate: func(c *Config) { c.PageSize = -1 }},
		{name: "NegativeCacheTTL", mutate: func(c *Config) { c.FeedCacheTTLSecs = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateProductionHardening(t *testing.T) {
	base := func() *Config {
		cfg := validConfig()
		cfg.Env = "production"
		cfg.DBPassword = "genuinely-strong-password"
		cfg.DBSSLMode = "require"
		return cfg
	}

	assert.NoError(t, base().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "DefaultJWTSecret", mutate: func(c *Config) { c.JWTSecret = "your-secret-key-change-in-production" }},
		{name: "ShortJWTSecret", mutate: func(c *Config) { c.JWTSecret = "short" }},
		{name: "DefaultDBPassword", mutate: func(c *Config) { c.DBPassword = "password" }},
		{name: "SSLDisabled", mutate: func(c *Config) { c.DBSSLMode = "disable" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestFeedCacheTTL(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, 20*time.Second, cfg.FeedCacheTTL())

	cfg.FeedCacheTTLSecs = 0
	assert.Zero(t, cfg.FeedCacheTTL(), "zero TTL disables the cache")
}
