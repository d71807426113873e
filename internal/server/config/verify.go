// Package config defines the snapkv server configuration.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/snapkv/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if !cfg.Redis.Enabled && !cfg.HTTP.Enabled {
		return errors.New("at least one of server.redis and server.http must be enabled")
	}

	if cfg.Redis.Enabled {
		if err := verifyAddr("server.redis.addr", cfg.Redis.Addr); err != nil {
			return err
		}
		if cfg.Redis.RateLimit < 0 {
			return errors.New("server.redis.rate_limit must not be negative")
		}
		if cfg.Redis.ReadTimeout < 0 || cfg.Redis.WriteTimeout < 0 || cfg.Redis.IdleTimeout < 0 {
			return errors.New("server.redis timeouts must not be negative")
		}
	}

	if cfg.HTTP.Enabled {
		if err := verifyAddr("server.http.addr", cfg.HTTP.Addr); err != nil {
			return err
		}
	}

	if cfg.Redis.Enabled && cfg.HTTP.Enabled && cfg.Redis.Addr == cfg.HTTP.Addr {
		return fmt.Errorf("server.redis.addr and server.http.addr conflict: %s", cfg.Redis.Addr)
	}
	return nil
}

func verifyAddr(name, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", name)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		return fmt.Errorf("log.format %q is not one of json, text", cfg.Format)
	}
	return nil
}
