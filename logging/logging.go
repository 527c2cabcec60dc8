// Package logging is the structured logger interface used by the analysis
// packages, backed by zap.
//
// Library code never reaches for a global logger: callers inject a Logger
// through options or config structs, and the default is NewNop.
package logging

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields carries structured key/value context.
type Fields map[string]any

// Level is a logging severity.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("logging: unknown level %q", s)
	}
}

func (l Level) zap() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger is a leveled, structured logger.
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)
	WithFields(fields Fields) Logger
}

type zapLogger struct {
	l *zap.Logger
}

// NewZap wraps l. A nil l yields a no-op logger.
func NewZap(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}

	return &zapLogger{l: l}
}

// NewNop returns a logger that discards everything.
func NewNop() Logger { return NewZap(nil) }

// New returns a console logger writing to stderr at the given level.
func New(level Level) (Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level.zap())
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}

	return NewZap(l), nil
}

// NewJSON returns a JSON logger writing to stderr at the given level.
func NewJSON(level Level) (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level.zap())

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}

	return NewZap(l), nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNop()
	}

	return l
}

func (z *zapLogger) Debug(msg string, fields ...Fields) { z.l.Debug(msg, toZap(fields)...) }
func (z *zapLogger) Info(msg string, fields ...Fields)  { z.l.Info(msg, toZap(fields)...) }
func (z *zapLogger) Warn(msg string, fields ...Fields)  { z.l.Warn(msg, toZap(fields)...) }

func (z *zapLogger) Error(err error, msg string, fields ...Fields) {
	z.l.Error(msg, append(toZap(fields), zap.Error(err))...)
}

func (z *zapLogger) WithFields(fields Fields) Logger {
	return &zapLogger{l: z.l.With(toZap([]Fields{fields})...)}
}

// toZap flattens fields in key order so output is stable.
func toZap(fields []Fields) []zap.Field {
	var out []zap.Field

	for _, f := range fields {
		keys := make([]string, 0, len(f))
		for k := range f {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		for _, k := range keys {
			out = append(out, zap.Any(k, f[k]))
		}
	}

	return out
}
