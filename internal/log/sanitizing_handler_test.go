package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizingHandler_MasksSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"api key", "api_key", "abc"},
		{"token", "token", "t0k3n"},
		{"student name", "student_name", "Alex Doe"},
		{"email key", "email", "someone"},
		{"keyword inside key", "upstream_password_hash", "x"},
		{"case insensitive", "Authorization", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			NewLogger(&buf, true).Info("record", tt.key, tt.value)
			out := buf.String()
			if strings.Contains(out, tt.value) {
				t.Errorf("expected %q to be masked, got %s", tt.value, out)
			}
			if !strings.Contains(out, MaskValue) {
				t.Errorf("expected mask in output, got %s", out)
			}
		})
	}
}

func TestSanitizingHandler_MasksSensitiveValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"bearer token", "Bearer abc.def", true},
		{"jwt", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig", true},
		{"provider key", "sk-abcdefghijklmnopqrstuv", true},
		{"email", "student@example.com", true},
		{"problem text", "Solve 2x+3=11", false},
		{"subject", "finance", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isSensitiveValue(tt.value); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSanitizingHandler_ClampsLongValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	long := strings.Repeat("é", MaxValueRunes+50)
	NewJSONLogger(&buf, true).Debug("problem", "question", long)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON output, got %v", err)
	}
	q, _ := rec["question"].(string)
	if got := utf8.RuneCountInString(q); got != MaxValueRunes+1 {
		t.Errorf("expected %d runes, got %d", MaxValueRunes+1, got)
	}
	if !strings.HasSuffix(q, "…") {
		t.Errorf("expected a cut marker, got %q", q[len(q)-10:])
	}
}

func TestSanitizingHandler_LogLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		verbose  bool
		level    slog.Level
		expected bool
	}{
		{"debug hidden when quiet", false, slog.LevelDebug, false},
		{"warn shown when quiet", false, slog.LevelWarn, true},
		{"debug shown when verbose", true, slog.LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.verbose)
			logger.Log(t.Context(), tt.level, "message")
			if got := buf.Len() > 0; got != tt.expected {
				t.Errorf("expected output=%v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSanitizingHandler_WithAttrsAndGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, true).With("token", "secret-value").WithGroup("record")
	logger.Info("verify", "student_email", "a@b.co", "subject", "physics")

	out := buf.String()
	for _, leaked := range []string{"secret-value", "a@b.co"} {
		if strings.Contains(out, leaked) {
			t.Errorf("expected %q to be masked, got %s", leaked, out)
		}
	}
	if !strings.Contains(out, "record.subject=physics") {
		t.Errorf("expected grouped subject, got %s", out)
	}
}

func TestNewSanitizingHandler_NilHandler(t *testing.T) {
	t.Parallel()

	if h := NewSanitizingHandler(nil); h.handler == nil {
		t.Error("expected the default handler to be used")
	}
}
