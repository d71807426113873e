// Package confloader loads configuration with koanf.
//
// Sources, lowest to highest priority:
//
//  1. Default values already present in the target struct
//  2. A YAML configuration file
//  3. Environment variables (SNAPKV_ prefix)
//  4. Explicit overrides, usually command-line flags (LoadMap)
//
// Environment names map to keys by lowercasing, turning "_" into "." and
// "__" into a literal underscore:
//
//	SNAPKV_LOG_LEVEL                -> log.level
//	SNAPKV_SERVER_REDIS_RATE__LIMIT -> server.redis.rate_limit
//
// Watcher reports changes to the configuration file through fsnotify.
package confloader
