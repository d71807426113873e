// Package logger provides structured logging for snapkv.
package logger

import (
	"log/slog"
	"strings"
)

// credentialKeys are always masked.
var credentialKeys = []string{
	"password",
	"secret",
	"credential",
}

// valueKeys carry user data and are masked when value redaction is on.
var valueKeys = []string{
	"value",
	"values",
}

const redactedValue = "***REDACTED***"

func redact(a slog.Attr, values bool) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redact(attr, values)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if IsCredentialKey(a.Key) || (values && isValueKey(a.Key)) {
		if a.Value.Kind() == slog.KindString && a.Value.String() == "" {
			return a
		}
		return slog.String(a.Key, redactedValue)
	}
	return a
}

// IsCredentialKey reports whether an attribute key names a credential.
func IsCredentialKey(key string) bool {
	k := strings.ToLower(key)
	for _, pattern := range credentialKeys {
		if strings.Contains(k, pattern) {
			return true
		}
	}
	return false
}

func isValueKey(key string) bool {
	k := strings.ToLower(key)
	for _, v := range valueKeys {
		if k == v {
			return true
		}
	}
	return false
}
