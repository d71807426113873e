package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/snapkv/internal/core/service"
	"github.com/yndnr/snapkv/internal/infra/buildinfo"
	"github.com/yndnr/snapkv/internal/infra/confloader"
	"github.com/yndnr/snapkv/internal/infra/shutdown"
	"github.com/yndnr/snapkv/internal/server/config"
	"github.com/yndnr/snapkv/internal/server/httpserver"
	"github.com/yndnr/snapkv/internal/server/redisserver"
	"github.com/yndnr/snapkv/internal/telemetry/logger"
	"github.com/yndnr/snapkv/internal/telemetry/metric"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "snapkv-server",
		Usage:   "in-memory key/field store with point-in-time restore",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration file"},
			&cli.StringFlag{Name: "redis-addr", Usage: "RESP listen address"},
			&cli.StringFlag{Name: "http-addr", Usage: "HTTP listen address"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		},
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "Show build information",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintln(c.App.Writer, "snapkv-server "+buildinfo.String())
					return err
				},
			},
		},
		Action: serve,
	}
}

// flagOverrides maps explicitly set flags onto configuration keys.
func flagOverrides(c *cli.Context) map[string]any {
	keys := map[string]string{
		"redis-addr": "server.redis.addr",
		"http-addr":  "server.http.addr",
		"log-level":  "log.level",
	}
	out := make(map[string]any)
	for flag, key := range keys {
		if c.IsSet(flag) {
			out[key] = c.String(flag)
		}
	}
	return out
}

// loadConfig layers defaults, file, environment and overrides, then verifies.
func loadConfig(path string, overrides map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	loader := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithOverrides(overrides),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func serve(c *cli.Context) error {
	path := c.String("config")
	overrides := flagOverrides(c)

	cfg, err := loadConfig(path, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       os.Stdout,
		RedactValues: cfg.Log.RedactValues,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	log.Info("starting snapkv-server",
		"version", buildinfo.Version,
		"config", path,
		"effective", config.Sanitize(cfg))

	reg := metric.NewRegistry()
	db := service.New(service.WithRecorder(reg))
	reg.MustRegister(metric.NewCollector(db.MetricStats))

	sh := shutdown.NewHandler(cfg.ShutdownTimeout)
	ctx := c.Context

	if cfg.Server.Redis.Enabled {
		rs := redisserver.New(redisserver.Config{
			Addr:         cfg.Server.Redis.Addr,
			Password:     cfg.Server.Redis.Password,
			RateLimit:    cfg.Server.Redis.RateLimit,
			ReadTimeout:  cfg.Server.Redis.ReadTimeout,
			WriteTimeout: cfg.Server.Redis.WriteTimeout,
			IdleTimeout:  cfg.Server.Redis.IdleTimeout,
		}, db, log)
		if err := rs.Start(ctx); err != nil {
			return fmt.Errorf("start redis server: %w", err)
		}
		sh.OnShutdown("redis", rs.Shutdown)
	}

	if cfg.Server.HTTP.Enabled {
		router := httpserver.NewRouter(httpserver.RouterConfig{
			DB:      db,
			Metrics: reg.Handler(),
			Logger:  log,
		})
		hs := httpserver.New(cfg.Server.HTTP.Addr, router, log)
		if err := hs.Start(); err != nil {
			sh.Trigger()
			_ = sh.Wait(context.Background())
			return fmt.Errorf("start http server: %w", err)
		}
		sh.OnShutdown("http", func(ctx context.Context) error {
			router.SetReady(false)
			return hs.Shutdown(ctx)
		})
		go func() {
			if err := <-hs.Err(); err != nil {
				log.Error("http server failed", "error", err)
				sh.Trigger()
			}
		}()
	}

	if path != "" {
		w, err := watchConfig(path, overrides, log)
		if err != nil {
			log.Warn("configuration watcher disabled", "error", err)
		} else {
			sh.OnShutdown("config-watcher", func(context.Context) error { return w.Stop() })
		}
	}

	log.Info("server started")
	if err := sh.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}
	log.Info("server stopped gracefully")
	return nil
}

// watchConfig reapplies log.level whenever the configuration file changes.
// Other settings take effect on restart.
func watchConfig(path string, overrides map[string]any, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.Slog()))
	if err != nil {
		return nil, err
	}

	w.OnChange(func(string) {
		cfg, err := loadConfig(path, overrides)
		if err != nil {
			log.Warn("configuration reload rejected", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})

	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}
	w.StartAsync()
	return w, nil
}
