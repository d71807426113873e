package config

import "time"

// CLIConfig is the configuration for snapkv-cli.
type CLIConfig struct {
	// Server is the RESP address, host:port.
	Server string `koanf:"server"`
	// Password is sent with AUTH when non-empty.
	Password string `koanf:"password"`
	// Output is the default format: table, json or yaml.
	Output string `koanf:"output"`
	// Timeout bounds each request.
	Timeout time.Duration `koanf:"timeout"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:  "127.0.0.1:6380",
		Output:  "table",
		Timeout: 10 * time.Second,
	}
}
