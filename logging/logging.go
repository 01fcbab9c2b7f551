// Package logging builds the structured logger shared by the CLI and the
// batch runner.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelFor maps a count of -v flags to a log level: none logs warnings and
// errors, one adds info, two or more add debug.
func LevelFor(verbosity int) zapcore.Level {
	switch {
	case verbosity <= 0:
		return zapcore.WarnLevel
	case verbosity == 1:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// New returns a JSON production logger writing to stderr.
func New(verbosity int) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(LevelFor(verbosity))
	config.DisableStacktrace = verbosity < 2
	return config.Build()
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
