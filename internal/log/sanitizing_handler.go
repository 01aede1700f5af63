package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

// sensitiveKeys are attribute keys whose values are always masked.
var sensitiveKeys = map[string]bool{
	// Credentials of the upstream classifier and storage
	"authorization": true,
	"password":      true,
	"secret":        true,
	"token":         true,
	"api_key":       true,
	"apikey":        true,
	"api-key":       true,
	"access_token":  true,
	"dsn":           true,

	// Student identity carried in problem records
	"student":       true,
	"student_name":  true,
	"student_email": true,
	"email":         true,
	"user":          true,
	"user_id":       true,
	"chat_id":       true,
}

// sensitiveKeywords mark a key as sensitive when they appear anywhere in it.
// The bare word "key" is left out: "primary_key" or "subject_key" are not
// secrets, and the specific key names are listed in sensitiveKeys.
var sensitiveKeywords = []string{"password", "secret", "token", "credential", "email", "student"}

// sensitivePatterns mask a string value whatever its key.
var sensitivePatterns = []*regexp.Regexp{
	// JWT tokens
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),

	// Bearer tokens
	regexp.MustCompile(`(?i)^bearer\s+.+`),

	// Provider API keys ("sk-...", "AIza...")
	regexp.MustCompile(`^(?:sk-[A-Za-z0-9_-]{16,}|AIza[0-9A-Za-z_-]{30,})$`),

	// E-mail addresses
	regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[A-Za-z]{2,}$`),
}

// MaskValue replaces sensitive values.
const MaskValue = "***REDACTED***"

// MaxValueRunes is the longest string value written unchanged. Problem
// statements and OCR text can run to pages; longer values are clamped.
const MaxValueRunes = 200

// SanitizingHandler wraps an slog.Handler, masking sensitive attributes and
// clamping long string values before they reach the underlying handler.
//
// Design decision: a handler wrapper rather than a custom logger, so every
// package keeps using plain *slog.Logger and any output format works.
type SanitizingHandler struct {
	handler slog.Handler
}

// NewSanitizingHandler wraps handler. A nil handler wraps slog.Default().Handler().
func NewSanitizingHandler(handler slog.Handler) *SanitizingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SanitizingHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *SanitizingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it on.
func (h *SanitizingHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a handler with the sanitized attributes added.
func (h *SanitizingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = sanitizeAttr(a)
	}
	return &SanitizingHandler{handler: h.handler.WithAttrs(out)}
}

// WithGroup returns a handler with the given group name.
func (h *SanitizingHandler) WithGroup(name string) slog.Handler {
	return &SanitizingHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr sanitizes one attribute, recursing into groups.
func sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, g := range attrs {
			out[i] = sanitizeAttr(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	key := strings.ToLower(a.Key)
	if sensitiveKeys[key] || containsSensitiveKeyword(key) {
		return slog.String(a.Key, MaskValue)
	}
	if a.Value.Kind() == slog.KindString {
		s := a.Value.String()
		if isSensitiveValue(s) {
			return slog.String(a.Key, MaskValue)
		}
		return slog.String(a.Key, clamp(s))
	}
	return a
}

func containsSensitiveKeyword(key string) bool {
	for _, k := range sensitiveKeywords {
		if strings.Contains(key, k) {
			return true
		}
	}
	return false
}

func isSensitiveValue(value string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}

// clamp shortens s to MaxValueRunes runes and marks the cut.
func clamp(s string) string {
	if utf8.RuneCountInString(s) <= MaxValueRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxValueRunes]) + "…"
}

func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewLogger creates a text logger with sanitization. Verbose selects the
// Debug level, otherwise Warn.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSanitizingHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level(verbose)})))
}

// NewJSONLogger creates a JSON logger with sanitization, for log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSanitizingHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level(verbose)})))
}
