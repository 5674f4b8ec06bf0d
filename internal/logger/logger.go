package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Alerter receives error-level messages out of band.
type Alerter interface {
	SendAlert(msg string) error
}

type TelegramHandler struct {
	slog.Handler
	tg Alerter
}

func (h *TelegramHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError && h.tg != nil {
		msg := r.Message
		if id := RequestIDFromContext(ctx); id != "" {
			msg += " (request_id=" + id + ")"
		}
		if err := h.tg.SendAlert(msg); err != nil {
			// Пишем напрямую в stderr, чтобы не уйти в рекурсию через h.Handler
			os.Stderr.WriteString("Failed to send telegram alert: " + err.Error() + "\n")
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *TelegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TelegramHandler{
		Handler: h.Handler.WithAttrs(attrs),
		tg:      h.tg,
	}
}

func (h *TelegramHandler) WithGroup(name string) slog.Handler {
	return &TelegramHandler{
		Handler: h.Handler.WithGroup(name),
		tg:      h.tg,
	}
}

// New builds the process logger: JSON to stdout, secrets redacted,
// errors mirrored to Telegram when tg is configured.
func New(tg Alerter, level string) *slog.Logger {
	return NewWithWriter(os.Stdout, tg, level)
}

func NewWithWriter(w io.Writer, tg Alerter, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}
	jsonHandler := slog.NewJSONHandler(w, opts)
	tgHandler := &TelegramHandler{
		Handler: jsonHandler,
		tg:      tg,
	}
	return slog.New(&RedactHandler{Handler: tgHandler})
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type ctxKey struct{}

type requestIDKey struct{}

func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// WithRequestID stores the correlation ID used in log records.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
