// Package config defines the snapkv server configuration.
package config

import "time"

// Default configuration values.
const (
	DefaultRedisAddr    = "127.0.0.1:6380"
	DefaultHTTPAddr     = "127.0.0.1:8380"
	DefaultRateLimit    = 1000
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = 5 * time.Minute

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultShutdownTimeout = 30 * time.Second
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Redis: RedisConfig{
				Enabled:      true,
				Addr:         DefaultRedisAddr,
				RateLimit:    DefaultRateLimit,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				IdleTimeout:  DefaultIdleTimeout,
			},
			HTTP: HTTPConfig{
				Enabled: true,
				Addr:    DefaultHTTPAddr,
			},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}
