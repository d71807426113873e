// Package config defines the snapkv server configuration.
package config

import "time"

// ServerConfig is the root configuration for snapkv-server.
type ServerConfig struct {
	Server          ServerSection `koanf:"server"`
	Log             LogSection    `koanf:"log"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// ServerSection configures the network endpoints.
type ServerSection struct {
	Redis RedisConfig `koanf:"redis"`
	HTTP  HTTPConfig  `koanf:"http"`
}

// RedisConfig configures the RESP protocol server.
type RedisConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`

	// Password enables AUTH when non-empty.
	Password string `koanf:"password"`

	// RateLimit is the maximum commands per second per client IP (0 = off).
	RateLimit int `koanf:"rate_limit"`

	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// HTTPConfig configures the HTTP admin and metrics server.
type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`

	// RedactValues masks stored values in debug logs.
	RedactValues bool `koanf:"redact_values"`
}
