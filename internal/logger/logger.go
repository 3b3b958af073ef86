// Package logger provides the structured logger used across heron.
//
// The Logger interface keeps call sites free of the backend. The default
// implementation writes through charmbracelet/log in either text or JSON
// form.
package logger

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelSilent
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelSilent:
		return "silent"
	default:
		return "unknown"
	}
}

// ParseLevel maps a level name (case-insensitive) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "silent", "off":
		return LevelSilent, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func (l Level) charm() charmlog.Level {
	switch l {
	case LevelDebug:
		return charmlog.DebugLevel
	case LevelWarn:
		return charmlog.WarnLevel
	case LevelError:
		return charmlog.ErrorLevel
	case LevelSilent:
		return charmlog.Level(math.MaxInt32)
	default:
		return charmlog.InfoLevel
	}
}

// Logger provides structured logging with configurable levels
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	WithFields(fields ...Field) Logger
	SetLevel(level Level)
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value any
}

// F is a convenience function for creating fields
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func keyvals(fields []Field) []any {
	kv := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}

// Options configures a logger.
type Options struct {
	Level      Level
	Output     io.Writer // defaults to os.Stderr
	JSON       bool
	TimeFormat string
	Prefix     string
}

type charmLogger struct {
	base *charmlog.Logger
}

// New creates a logger backed by charmbracelet/log.
func New(opts Options) Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.TimeFormat == "" {
		opts.TimeFormat = "15:04:05"
	}

	base := charmlog.NewWithOptions(opts.Output, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      opts.TimeFormat,
		Level:           opts.Level.charm(),
		Prefix:          opts.Prefix,
	})
	if opts.JSON {
		base.SetFormatter(charmlog.JSONFormatter)
	} else {
		base.SetFormatter(charmlog.TextFormatter)
	}
	return &charmLogger{base: base}
}

// NewLogger creates a text logger with the specified level and output
func NewLogger(level Level, out io.Writer) Logger {
	return New(Options{Level: level, Output: out})
}

// NewDefaultLogger creates a logger with Info level writing to stderr
func NewDefaultLogger() Logger {
	return NewLogger(LevelInfo, os.Stderr)
}

// NewSilentLogger creates a logger that outputs nothing
func NewSilentLogger() Logger {
	return NewLogger(LevelSilent, io.Discard)
}

func (l *charmLogger) SetLevel(level Level) {
	l.base.SetLevel(level.charm())
}

func (l *charmLogger) WithFields(fields ...Field) Logger {
	return &charmLogger{base: l.base.With(keyvals(fields)...)}
}

func (l *charmLogger) Debug(msg string, fields ...Field) {
	l.base.Debug(msg, keyvals(fields)...)
}

func (l *charmLogger) Info(msg string, fields ...Field) {
	l.base.Info(msg, keyvals(fields)...)
}

func (l *charmLogger) Warn(msg string, fields ...Field) {
	l.base.Warn(msg, keyvals(fields)...)
}

func (l *charmLogger) Error(msg string, fields ...Field) {
	l.base.Error(msg, keyvals(fields)...)
}

// Global default logger
var defaultLogger = NewDefaultLogger()

// SetDefault sets the global default logger
func SetDefault(l Logger) {
	defaultLogger = l
}

// Default returns the global default logger
func Default() Logger {
	return defaultLogger
}

// Convenience functions using the default logger
func Debug(msg string, fields ...Field) {
	defaultLogger.Debug(msg, fields...)
}

func Info(msg string, fields ...Field) {
	defaultLogger.Info(msg, fields...)
}

func Warn(msg string, fields ...Field) {
	defaultLogger.Warn(msg, fields...)
}

func Error(msg string, fields ...Field) {
	defaultLogger.Error(msg, fields...)
}
