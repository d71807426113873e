// Package main provides the entry point for snapkv-server.
//
// snapkv-server hosts one in-memory database and exposes it over:
//
//   - the Redis protocol (RESP2) for data, backup and restore commands
//   - HTTP for health probes, Prometheus metrics and the admin API
//
// Usage:
//
//	snapkv-server [--config FILE] [--redis-addr ADDR] [--http-addr ADDR] [--log-level LEVEL]
//	snapkv-server version
//
// Configuration is layered: defaults, the YAML file, SNAPKV_* environment
// variables, then flags. When a file is given, edits to log.level are
// applied without a restart.
package main
