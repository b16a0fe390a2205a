package logger

import (
	"regexp"
	"strings"
)

const redactedPlaceholder = "[REDACTED]"

// Credentials that can surface in driver and SDK error text, e.g. a DSN password or
// a presign secret echoed back by a failing request.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(password|passwd|pwd)[\s:=]+[^\s]+`),
	regexp.MustCompile(`(?i)(token|jwt|bearer)[\s:=]+[^\s]+`),
	regexp.MustCompile(`(?i)(secret[_-]?access[_-]?key|access[_-]?key[_-]?id|secret|private[_-]?key)[\s:=]+[^\s]+`),
	regexp.MustCompile(`(?i)(x-amz-signature|x-amz-credential)=[^&\s]+`),
}

var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"token", "jwt", "bearer",
	"secret", "private_key", "access_key",
}

// SanitizeLogMessage redacts credential values from a log line.
func SanitizeLogMessage(message string) string {
	for _, p := range sensitivePatterns {
		message = p.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	}
	return message
}

// SanitizeMap returns a copy of data with sensitive keys redacted.
func SanitizeMap(data map[string]any) map[string]any {
	sanitized := make(map[string]any, len(data))
	for k, v := range data {
		if isSensitiveKey(k) {
			sanitized[k] = redactedPlaceholder
			continue
		}
		sanitized[k] = v
	}
	return sanitized
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
