// Package config defines process configuration and loading.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// JWTSecret signs and verifies bearer tokens.
	JWTSecret string `koanf:"jwt_secret"`

	// BidDurationSeconds is the auction window; every accepted bid resets
	// the deadline to now plus this window.
	BidDurationSeconds int `koanf:"bid_duration_seconds"`

	// EventBufferSize bounds each subscriber's event channel.
	EventBufferSize int `koanf:"event_buffer_size"`

	// SettlementMaxRetries caps repository write retries after a settlement.
	SettlementMaxRetries int `koanf:"settlement_max_retries"`

	// SettlementBackoffMS is the initial retry backoff in milliseconds.
	SettlementBackoffMS int `koanf:"settlement_backoff_ms"`

	// SweepIntervalSeconds drives the periodic expired-auction sweep.
	// Zero disables the sweep ticker (startup recovery still runs).
	SweepIntervalSeconds int `koanf:"sweep_interval_seconds"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:                 ":8080",
		LogLevel:             "info",
		JWTSecret:            "fallback-secret",
		BidDurationSeconds:   30,
		EventBufferSize:      64,
		SettlementMaxRetries: 5,
		SettlementBackoffMS:  200,
		SweepIntervalSeconds: 15,
	}
}

// BidDuration returns the auction window as a duration.
func (c *Config) BidDuration() time.Duration {
	return time.Duration(c.BidDurationSeconds) * time.Second
}

// SettlementBackoff returns the initial retry backoff as a duration.
func (c *Config) SettlementBackoff() time.Duration {
	return time.Duration(c.SettlementBackoffMS) * time.Millisecond
}

// SweepInterval returns the sweep ticker period as a duration.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}
