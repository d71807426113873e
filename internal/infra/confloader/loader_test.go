package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Server struct {
		Redis struct {
			Addr      string        `koanf:"addr"`
			RateLimit int           `koanf:"rate_limit"`
			Timeout   time.Duration `koanf:"timeout"`
		} `koanf:"redis"`
	} `koanf:"server"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_DefaultsSurvive(t *testing.T) {
	var cfg testConfig
	cfg.Server.Redis.Addr = "127.0.0.1:6380"
	cfg.Log.Level = "info"

	l := NewLoader(WithEnvPrefix("SNAPKV_TEST_NONE_"))
	require.NoError(t, l.Load(&cfg))

	assert.True(t, l.IsLoaded())
	assert.Equal(t, "127.0.0.1:6380", cfg.Server.Redis.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoader_File(t *testing.T) {
	path := writeFile(t, `
server:
  redis:
    addr: 0.0.0.0:7000
    rate_limit: 50
    timeout: 3s
log:
  level: debug
`)

	var cfg testConfig
	l := NewLoader(WithConfigFile(path), WithEnvPrefix("SNAPKV_TEST_NONE_"))
	require.NoError(t, l.Load(&cfg))

	assert.Equal(t, "0.0.0.0:7000", cfg.Server.Redis.Addr)
	assert.Equal(t, 50, cfg.Server.Redis.RateLimit)
	assert.Equal(t, 3*time.Second, cfg.Server.Redis.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "debug", l.GetString("log.level"))
}

func TestLoader_MissingFile(t *testing.T) {
	var cfg testConfig
	l := NewLoader(WithConfigFile(filepath.Join(t.TempDir(), "absent.yaml")))
	err := l.Load(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config file")
	assert.False(t, l.IsLoaded())
}

func TestLoader_Precedence(t *testing.T) {
	path := writeFile(t, `
server:
  redis:
    addr: file:1
    rate_limit: 10
log:
  level: warn
`)
	t.Setenv("SNAPKV_SERVER_REDIS_ADDR", "env:2")
	t.Setenv("SNAPKV_SERVER_REDIS_RATE__LIMIT", "20")

	var cfg testConfig
	l := NewLoader(
		WithConfigFile(path),
		WithOverrides(map[string]any{"server.redis.addr": "flag:3"}),
	)
	require.NoError(t, l.Load(&cfg))

	assert.Equal(t, "flag:3", cfg.Server.Redis.Addr)
	assert.Equal(t, 20, cfg.Server.Redis.RateLimit)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoader_EnvKey(t *testing.T) {
	l := NewLoader()

	tests := []struct {
		env  string
		want string
	}{
		{"SNAPKV_LOG_LEVEL", "log.level"},
		{"SNAPKV_SHUTDOWN__TIMEOUT", "shutdown_timeout"},
		{"SNAPKV_SERVER_REDIS_RATE__LIMIT", "server.redis.rate_limit"},
		{"SNAPKV_LOG_REDACT__VALUES", "log.redact_values"},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, l.envKey(tt.env))
		})
	}
}

func TestLoader_OverridesNest(t *testing.T) {
	t.Setenv("SNAPKV_LOG_LEVEL", "warn")

	var cfg testConfig
	cfg.Log.Level = "info"
	cfg.Server.Redis.Addr = "127.0.0.1:6380"

	l := NewLoader(WithOverrides(map[string]any{
		"log.level":         "debug",
		"server.redis.addr": "127.0.0.1:7003",
	}))
	require.NoError(t, l.Load(&cfg))

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:7003", cfg.Server.Redis.Addr)
	assert.NotContains(t, l.k.Raw(), "log.level")
}

func TestLoader_LoadMapNested(t *testing.T) {
	l := NewLoader()
	require.NoError(t, l.LoadMap(map[string]any{"log.level": "error"}))

	var cfg testConfig
	require.NoError(t, l.Unmarshal(&cfg))
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Contains(t, l.Keys(), "log.level")
}
