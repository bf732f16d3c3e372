package logger

import (
	"log/slog"
	"strconv"
	"strings"
)

// Key patterns naming credentials. "key" alone is deliberately absent:
// in respkv it names a store key, which is logged as-is.
var sensitiveKeyPatterns = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"credential",
	"auth",
	"bearer",
	"api_key",
	"apikey",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// MaxValueLen is the longest string attribute logged verbatim. Longer
// values (typically client payloads at debug level) are truncated.
const MaxValueLen = 256

// redactAttr masks credential-named attributes and truncates long strings.
func redactAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		strVal := a.Value.String()
		if strVal != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
		if len(strVal) > MaxValueLen {
			return slog.String(a.Key, Truncate(strVal, MaxValueLen))
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactAttr(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}
	return a
}

// Truncate shortens s to at most max bytes of content, followed by a marker
// carrying the original length. Strings within max are returned unchanged.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max < 0 {
		max = 0
	}
	return s[:max] + "...(" + strconv.Itoa(len(s)) + " bytes)"
}

// maskValue partially masks a value: first 3 chars + "..." + last 3 chars.
func maskValue(value string) string {
	if len(value) <= 8 {
		return "***"
	}
	return value[:3] + "..." + value[len(value)-3:]
}

// RedactString masks a value for manual logging.
func RedactString(value string) string {
	if value == "" {
		return ""
	}
	return maskValue(value)
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
