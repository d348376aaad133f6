package logger

import (
	"strings"
	"testing"
)

func TestSanitizeUserID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		userID string
		want   string
	}{
		{"uuid passes through", "0b1f3c52-8a24-4f6e-9c11-2d4e8b7a6f05", "0b1f3c52-8a24-4f6e-9c11-2d4e8b7a6f05"},
		{"empty", "", ""},
		{"control characters stripped", "user\x00\x1b[31mid\n", "user[31mid\n"},
		{"newline kept", "line1\nline2", "line1\nline2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeUserID(tt.userID); got != tt.want {
				t.Errorf("SanitizeUserID(%q) = %q, want %q", tt.userID, got, tt.want)
			}
		})
	}
}

func TestSanitizeUserID_TruncatesOversizedSubjects(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 200)
	got := SanitizeUserID(long)
	if len(got) != maxUserIDLength+len("...") {
		t.Errorf("Expected truncation to %d chars plus ellipsis, got %d", maxUserIDLength, len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected truncated value to end with ellipsis, got %q", got)
	}
}

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	if got := SanitizePath("/api/v1/bots/health"); got != "/api/v1/bots/health" {
		t.Errorf("Expected clean path unchanged, got %q", got)
	}

	if got := SanitizePath("/api\x00/v1\x07/context"); got != "/api/v1/context" {
		t.Errorf("Expected control characters stripped, got %q", got)
	}

	long := "/" + strings.Repeat("x", 600)
	if got := SanitizePath(long); len(got) != maxPathLength+len("...") {
		t.Errorf("Expected truncation to %d chars plus ellipsis, got %d", maxPathLength, len(got))
	}

	if got := SanitizePath("/api/\xff\xfe/v1"); got != "/api//v1" {
		t.Errorf("Expected invalid UTF-8 dropped, got %q", got)
	}
}
