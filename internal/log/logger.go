package log

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/countdown/internal/errors"
)

// Logger provides structured logging with slog
type Logger struct {
	slog   *slog.Logger
	config Config
}

// New creates a new Logger with the given configuration
func New(config Config) *Logger {
	opts := &slog.HandlerOptions{
		Level:     config.Level.ToSlogLevel(),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	switch config.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(config.Output.Writer(), opts)
	default:
		handler = slog.NewTextHandler(config.Output.Writer(), opts)
	}

	logger := slog.New(handler)
	if config.ServiceName != "" {
		logger = logger.With("service", config.ServiceName, "version", config.ServiceVersion)
	}

	return &Logger{
		slog:   logger,
		config: config,
	}
}

// Default creates a logger with default configuration
func Default() *Logger {
	return New(DefaultConfig())
}

// Discard creates a logger that drops all records, for tests
func Discard() *Logger {
	cfg := DefaultConfig()
	cfg.Output = OutputDiscard()
	return New(cfg)
}

// With returns a new Logger with the given attributes added to all log entries
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:   l.slog.With(args...),
		config: l.config,
	}
}

// WithGroup returns a new Logger with a group name that prefixes all attributes
func (l *Logger) WithGroup(name string) *Logger {
	return &Logger{
		slog:   l.slog.WithGroup(name),
		config: l.config,
	}
}

// WithError adds error details to the logger.
// A TimerError contributes its code and suggestions.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}

	if te, ok := errors.As(err); ok {
		return l.With(timerErrorArgs(te, "error")...)
	}

	return l.With("error", err.Error())
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

// InfoContext logs an info message with context
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.slog.InfoContext(ctx, msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

// LogError logs an error with full details
func (l *Logger) LogError(err error) {
	l.LogErrorContext(context.Background(), err)
}

// LogErrorContext logs an error with full details and context
func (l *Logger) LogErrorContext(ctx context.Context, err error) {
	if err == nil {
		return
	}

	if te, ok := errors.As(err); ok {
		args := timerErrorArgs(te, "error_message")
		if te.DocsURL != "" {
			args = append(args, "docs_url", te.DocsURL)
		}
		l.slog.ErrorContext(ctx, "operation failed", args...)
		return
	}

	l.slog.ErrorContext(ctx, "operation failed", "error", err.Error())
}

func timerErrorArgs(te *errors.TimerError, messageKey string) []any {
	args := []any{
		messageKey, te.Message,
		"error_code", string(te.Code),
	}

	if len(te.Suggestions) > 0 {
		args = append(args, "suggestions", te.Suggestions)
	}

	if te.Cause != nil {
		args = append(args, "cause", te.Cause.Error())
	}
	return args
}

// Enabled returns whether the logger is enabled for the given level
func (l *Logger) Enabled(ctx context.Context, level Level) bool {
	return l.slog.Enabled(ctx, level.ToSlogLevel())
}

// Config returns the logger configuration
func (l *Logger) Config() Config {
	return l.config
}

// HookAdapter satisfies the hooks.Logger interface, which logs plain
// messages without attributes.
type HookAdapter struct {
	Logger *Logger
}

// Debug implements hooks.Logger
func (a HookAdapter) Debug(msg string) { a.Logger.Debug(msg) }

// Warn implements hooks.Logger
func (a HookAdapter) Warn(msg string) { a.Logger.Warn(msg) }

// Error implements hooks.Logger
func (a HookAdapter) Error(msg string) { a.Logger.Error(msg) }
