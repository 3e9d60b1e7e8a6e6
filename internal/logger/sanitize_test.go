package logger

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap/zapcore"
)

func TestSanitizeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		maxLength int
		want      string
	}{
		{"empty", "", 10, ""},
		{"plain", "hello", 10, "hello"},
		{"strips control characters", "a\x1b[31mb", 10, "a[31mb"},
		{"keeps newlines", "a\nb", 10, "a\nb"},
		{"truncates", "abcdefghij", 4, "abcd..."},
		{"invalid utf8 dropped", "ok\xffok", 10, "okok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeString(tt.input, tt.maxLength); got != tt.want {
				t.Errorf("SanitizeString(%q, %d) = %q, want %q", tt.input, tt.maxLength, got, tt.want)
			}
		})
	}
}

func TestSanitizeString_TruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	// Each Thai character is three bytes in UTF-8.
	got := SanitizeString("สวัสดีครับ", 4)
	if !utf8.ValidString(got) {
		t.Errorf("Expected valid UTF-8 after truncation, got %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected truncation marker, got %q", got)
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	if SanitizeError(nil) != "" {
		t.Error("Expected empty string for nil error")
	}
	if got := SanitizeError(errors.New("boom\x00")); got != "boom" {
		t.Errorf("SanitizeError() = %q, want %q", got, "boom")
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	l, err := New(Options{Debug: true, Component: "test"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("Expected debug level to be enabled")
	}
	if OrNop(nil) == nil {
		t.Error("OrNop(nil) returned nil")
	}
}
