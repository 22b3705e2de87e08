// Package config holds runtime settings for the browser client.
//
// Sources and precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. An optional JSON blob supplied by the host page, which overrides
//     any field it sets.
//
// # JSON schema
//
// Durations are either strings like "5s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://auth.example.com",
//	  "session_poll_interval": "5s",
//	  "session_cache_ttl": "30s",
//	  "request_timeout": "15s",
//	  "log_level": "debug"
//	}
package config

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the client.
type Config struct {
	APIBaseURL          string
	SessionPollInterval time.Duration
	SessionCacheTTL     time.Duration
	RequestTimeout      time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://hack-s-ikuthio-2025.vercel.app"
	c.SessionPollInterval = 5 * time.Second
	c.SessionCacheTTL = 30 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.APIBaseURL == "":
		return fmt.Errorf("%w: api_base_url is empty", ErrInvalidConfig)
	case c.SessionPollInterval <= 0:
		return fmt.Errorf("%w: session_poll_interval must be positive", ErrInvalidConfig)
	case c.SessionCacheTTL <= 0:
		return fmt.Errorf("%w: session_cache_ttl must be positive", ErrInvalidConfig)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("%w: request_timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// Load builds a Config from defaults, then overlays raw JSON when it is
// non-empty, then validates the result.
func Load(raw []byte) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if len(raw) > 0 {
		if err := parseJSON(cfg, raw); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
