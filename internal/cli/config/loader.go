package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yndnr/snapkv/internal/infra/confloader"
)

// EnvPrefix is the environment prefix for CLI settings.
const EnvPrefix = "SNAPKV_CLI_"

// DefaultPath returns ~/.snapkv/cli.yaml, or "" when there is no home.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snapkv", "cli.yaml")
}

// Load reads path over the defaults and applies the environment.
// A missing file is not an error.
func Load(path string) (*CLIConfig, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	loader := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithEnvPrefix(EnvPrefix),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
