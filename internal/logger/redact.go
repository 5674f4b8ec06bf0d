package logger

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

const redacted = "***REDACTED***"

type redactRule struct {
	re          *regexp.Regexp
	replacement string
}

var redactRules = []redactRule{
	{regexp.MustCompile(`(?i)password["']?\s*[:=]\s*["']?([^"'&\s]+)`), "password=" + redacted},
	{regexp.MustCompile(`(?i)token["']?\s*[:=]\s*["']?([^"'&\s]+)`), "token=" + redacted},
	{regexp.MustCompile(`(?i)api[_-]?key["']?\s*[:=]\s*["']?([^"'&\s]+)`), "api_key=" + redacted},
	{regexp.MustCompile(`(?i)secret["']?\s*[:=]\s*["']?([^"'&\s]+)`), "secret=" + redacted},
	// Email: оставляем локальную часть и домен, маскируем между ними
	{regexp.MustCompile(`([a-zA-Z0-9._%+-]+)@([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`), "${1}***@${2}"},
}

var sensitiveKeys = map[string]bool{
	"password":      true,
	"token":         true,
	"access_token":  true,
	"refresh_token": true,
	"api_key":       true,
	"secret":        true,
	"authorization": true,
}

// Redact masks credentials and e-mail addresses in free text.
func Redact(s string) string {
	for _, rule := range redactRules {
		s = rule.re.ReplaceAllString(s, rule.replacement)
	}
	return s
}

// RedactHandler scrubs the message and string attributes before they
// reach the wrapped handler.
type RedactHandler struct {
	slog.Handler
}

func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.NewRecord(r.Time, r.Level, Redact(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(redactAttr(a))
		return true
	})
	return h.Handler.Handle(ctx, clean)
}

func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cleaned := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		cleaned[i] = redactAttr(a)
	}
	return &RedactHandler{Handler: h.Handler.WithAttrs(cleaned)}
}

func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{Handler: h.Handler.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, Redact(v.String()))
	case slog.KindGroup:
		group := v.Group()
		cleaned := make([]any, len(group))
		for i, ga := range group {
			cleaned[i] = redactAttr(ga)
		}
		return slog.Group(a.Key, cleaned...)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, Redact(err.Error()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}
