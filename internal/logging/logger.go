// Package logging builds the zap loggers used across task-manager.
package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global atomic.Pointer[zap.Logger]

// Options controls logger construction.
type Options struct {
	Verbose bool
	JSON    bool
}

// New builds a logger writing to stderr. Verbose or TM_DEBUG lowers the level to debug.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.JSON {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	if opts.Verbose || DebugEnabled() {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// SetDefault installs logger as the package-level logger used by Debugf and Debugln.
func SetDefault(logger *zap.Logger) {
	global.Store(logger)
}

// L returns the package-level logger, or a no-op logger if none was installed.
func L() *zap.Logger {
	if logger := global.Load(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

// OrNop returns logger, or a no-op logger when logger is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
