// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// ContextKey represents keys for context values
type ContextKey string

const (
	ContextKeyRequestID  ContextKey = "request_id"
	ContextKeyClientIP   ContextKey = "client_ip"
	ContextKeyUserAgent  ContextKey = "user_agent"
	ContextKeyMethod     ContextKey = "method"
	ContextKeyPath       ContextKey = "path"
	ContextKeyStatusCode ContextKey = "status_code"
	ContextKeyDuration   ContextKey = "duration_ms"
)

// LogConfig holds logger configuration
type LogConfig struct {
	Level     string `json:"level"`
	Format    string `json:"format"`
	Output    string `json:"output"`
	AddSource bool   `json:"add_source"`
}

// Logger wraps slog.Logger with context extraction
type Logger struct {
	*slog.Logger
	config *LogConfig
}

var defaultLogger *Logger

// SetupLogger initializes the logger and installs it as the slog default.
func SetupLogger(level string, format string) *Logger {
	config := &LogConfig{
		Level:     level,
		Format:    format,
		Output:    "stdout",
		AddSource: level == "debug",
	}

	logger := NewLogger(config)
	defaultLogger = logger
	slog.SetDefault(logger.Logger)

	return logger
}

// NewLogger creates a new logger from config
func NewLogger(config *LogConfig) *Logger {
	if config == nil {
		config = &LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		}
	}

	opts := &slog.HandlerOptions{
		Level:       parseLevel(config.Level),
		AddSource:   config.AddSource,
		ReplaceAttr: replaceAttr,
	}

	writer := getWriter(config.Output)

	var handler slog.Handler
	switch config.Format {
	case "text":
		handler = slog.NewTextHandler(writer, opts)
	default:
		handler = slog.NewJSONHandler(writer, opts)
	}

	handler = &contextHandler{inner: handler}

	return &Logger{
		Logger: slog.New(handler),
		config: config,
	}
}

// WithContext creates a logger with context values automatically extracted
func (l *Logger) WithContext(ctx context.Context) *slog.Logger {
	attrs := extractContextAttrs(ctx)
	if len(attrs) > 0 {
		return l.Logger.With(attrs...)
	}
	return l.Logger
}

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	if defaultLogger == nil {
		defaultLogger = NewLogger(nil)
	}
	return defaultLogger
}

// contextHandler enriches records with request-scoped context values.
type contextHandler struct {
	inner slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, key := range contextKeys() {
		if val := ctx.Value(key); val != nil {
			record.AddAttrs(slog.Any(string(key), val))
		}
	}
	return h.inner.Handle(ctx, record)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{inner: h.inner.WithGroup(name)}
}

func contextKeys() []ContextKey {
	return []ContextKey{
		ContextKeyRequestID,
		ContextKeyClientIP,
		ContextKeyUserAgent,
		ContextKeyMethod,
		ContextKeyPath,
		ContextKeyStatusCode,
		ContextKeyDuration,
	}
}

func extractContextAttrs(ctx context.Context) []any {
	var attrs []any
	for _, key := range contextKeys() {
		val := ctx.Value(key)
		if val == nil {
			continue
		}
		if s, ok := val.(string); ok && s == "" {
			continue
		}
		attrs = append(attrs, slog.Any(string(key), val))
	}
	return attrs
}

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

func parseLevel(level string) slog.Leveler {
	if l, ok := levelNames[strings.ToLower(level)]; ok {
		return l
	}
	return slog.LevelInfo
}

func getWriter(output string) io.Writer {
	if output == "stderr" {
		return os.Stderr
	}
	if name, ok := strings.CutPrefix(output, "file:"); ok {
		file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			return file
		}
	}
	return os.Stdout
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch {
	case a.Key == slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format(time.RFC3339Nano))
		}
	case strings.HasSuffix(a.Key, "_ms"):
		if d, ok := a.Value.Any().(time.Duration); ok {
			a.Value = slog.Float64Value(float64(d.Milliseconds()))
		}
	}
	return a
}
