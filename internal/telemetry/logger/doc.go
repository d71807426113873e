// Package logger provides structured logging for snapkv.
//
//   - logger.go: slog-based logger, level control and the default logger
//   - context.go: context-aware logging with request/connection IDs
//   - redact.go: masking of credentials and, optionally, stored values
//
// Output is JSON by default; "text" (alias "console") selects the slog
// text handler. The level can be changed at runtime with SetLevel, which
// the server wires to configuration file reloads.
package logger
