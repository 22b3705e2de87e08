package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Duration decodes either a duration string ("5s") or integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		v, err := time.ParseDuration(str)
		if err != nil {
			return err
		}
		d.Duration = v
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("duration must be a string or integer nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

// JSONConfig is the DTO used for unmarshalling only.
type JSONConfig struct {
	APIBaseURL          string   `json:"api_base_url"`
	SessionPollInterval Duration `json:"session_poll_interval"`
	SessionCacheTTL     Duration `json:"session_cache_ttl"`
	RequestTimeout      Duration `json:"request_timeout"`
	LogLevel            string   `json:"log_level"`
}

// parseJSON overlays cfg with the fields set in raw.
func parseJSON(cfg *Config, raw []byte) error {
	var jc JSONConfig
	if err := json.Unmarshal(raw, &jc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = strings.TrimRight(jc.APIBaseURL, "/")
	}
	if jc.SessionPollInterval.Duration != 0 {
		cfg.SessionPollInterval = jc.SessionPollInterval.Duration
	}
	if jc.SessionCacheTTL.Duration != 0 {
		cfg.SessionCacheTTL = jc.SessionCacheTTL.Duration
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	return nil
}
