package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// maxPathLength is the maximum length for URL paths in logs
	maxPathLength = 500
	// maxUserIDLength is the maximum length for user IDs in logs (UUIDs are 36 chars)
	maxUserIDLength = 128
)

// SanitizePath sanitizes a URL path for safe logging.
// Removes control characters, truncates, and validates UTF-8.
func SanitizePath(path string) string {
	return sanitize(path, maxPathLength)
}

// SanitizeUserID sanitizes a user ID for safe logging. User IDs are normally
// UUIDs, but tokens from external identity providers can carry arbitrary
// subject strings.
func SanitizeUserID(userID string) string {
	return sanitize(userID, maxUserIDLength)
}

func sanitize(s string, maxLength int) string {
	if s == "" {
		return ""
	}

	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	// Remove control characters (except space, tab, newline, carriage return)
	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			builder.WriteRune(r)
		}
	}
	s = builder.String()

	if len(s) > maxLength {
		s = s[:maxLength] + "..."
	}

	return s
}
