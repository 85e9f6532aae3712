package log

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/kop-cichra/slsbench/internal/errors"
)

// Logger provides structured logging with slog
type Logger struct {
	slog   *slog.Logger
	config Config
}

// New creates a new Logger with the given configuration
func New(config Config) *Logger {
	if config.Output == nil {
		config.Output = io.Discard
	}
	opts := &slog.HandlerOptions{
		Level:     config.Level.slogLevel(),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.Format == FormatJSON {
		handler = slog.NewJSONHandler(config.Output, opts)
	} else {
		handler = slog.NewTextHandler(config.Output, opts)
	}

	return &Logger{
		slog:   slog.New(handler),
		config: config,
	}
}

// Default creates a logger with default configuration
func Default() *Logger {
	return New(DefaultConfig())
}

// EnvLevel names the variable that sets the level of the fallback logger.
const EnvLevel = "SLSBENCH_LOG_LEVEL"

// fallbackConfig is DefaultConfig with the level taken from EnvLevel, so
// packages logging before the CLI has configured anything still honour it.
func fallbackConfig(getenv func(string) string) Config {
	cfg := DefaultConfig()
	if v := getenv(EnvLevel); v != "" {
		cfg.Level = ParseLevel(v)
	}
	return cfg
}

var processLogger atomic.Pointer[Logger]

// SetDefaultLogger sets the process-wide logger returned by DefaultLogger.
func SetDefaultLogger(logger *Logger) {
	processLogger.Store(logger)
}

// DefaultLogger returns the process-wide logger, creating the stderr
// fallback on first use.
func DefaultLogger() *Logger {
	if l := processLogger.Load(); l != nil {
		return l
	}
	processLogger.CompareAndSwap(nil, New(fallbackConfig(os.Getenv)))
	return processLogger.Load()
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return New(Config{Level: LevelError, Output: io.Discard})
}

// With returns a new Logger with the given attributes added to all log entries
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:   l.slog.With(args...),
		config: l.config,
	}
}

// WithError adds error details to the logger. Harness errors also carry
// their code so failures can be grepped by category.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}

	var he *errors.HarnessError
	if stderrors.As(err, &he) {
		args := []any{
			"error", he.Message,
			"error_code", string(he.Code),
		}
		if he.Cause != nil {
			args = append(args, "cause", he.Cause.Error())
		}
		return l.With(args...)
	}

	return l.With("error", err.Error())
}

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

// InfoContext logs an info message with context
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.slog.InfoContext(ctx, msg, args...)
}

// ErrorContext logs an error message with context
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.slog.ErrorContext(ctx, msg, args...)
}

// LogError logs err with its code and cause.
func (l *Logger) LogError(err error) {
	if err == nil {
		return
	}
	l.WithError(err).Error("operation failed")
}

// Enabled returns whether the logger is enabled for the given level
func (l *Logger) Enabled(ctx context.Context, level Level) bool {
	return l.slog.Enabled(ctx, level.slogLevel())
}

// Config returns the logger configuration
func (l *Logger) Config() Config {
	return l.config
}
