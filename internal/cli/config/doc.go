// Package config holds snapkv-cli defaults read from ~/.snapkv/cli.yaml
// and SNAPKV_CLI_* environment variables. Command-line flags override
// both.
package config
