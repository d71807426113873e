// Package config defines the snapkv server configuration.
//
//   - spec.go: configuration structure (koanf tags)
//   - default.go: default values
//   - verify.go: validation
//   - sanitize.go: masking of secrets for logging
//
// Values are loaded by infra/confloader in the order
// defaults < YAML file < SNAPKV_* environment < command-line flags.
package config
