// Package logger provides structured logging for dbwipe using zap.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.SugaredLogger with cleanup-scoped context helpers.
type Logger struct {
	*zap.SugaredLogger
	base *zap.Logger
}

// Settings controls log level, encoding and destination.
type Settings struct {
	Level  string // debug, info, warn, error
	Format string // json or text
	Output string // stdout, stderr, or a file path
}

// New creates a Logger from settings.
func New(s Settings) *Logger {
	core := zapcore.NewCore(buildEncoder(s.Format), buildWriter(s.Output), parseLevel(s.Level))
	base := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return &Logger{SugaredLogger: base.Sugar(), base: base}
}

// NewDefault creates a Logger with info level, text format, stdout output.
func NewDefault() *Logger {
	return New(Settings{Level: "info", Format: "text", Output: "stdout"})
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func buildEncoder(format string) zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if format == "json" {
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func buildWriter(output string) zapcore.WriteSyncer {
	switch output {
	case "stdout", "":
		return zapcore.AddSync(os.Stdout)
	case "stderr":
		return zapcore.AddSync(os.Stderr)
	default:
		file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return zapcore.AddSync(os.Stdout)
		}
		return zapcore.AddSync(file)
	}
}

// WithDialect returns a Logger carrying the dialect name on every entry.
func (l *Logger) WithDialect(name string) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With("dialect", name), base: l.base}
}

// WithTable returns a Logger carrying a table name on every entry.
func (l *Logger) WithTable(table string) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With("table", table), base: l.base}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.base.Sync()
}
