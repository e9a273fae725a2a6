// Package logger builds the zap logger shared by the binaries.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production logger; development environments and an explicit
// "debug" level log at debug.
func New(appEnv, level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if appEnv != "production" {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	return config.Build()
}

// Quiet is used by the CLI: warnings and errors only, to stderr.
func Quiet() *zap.Logger {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	config.Encoding = "console"
	config.OutputPaths = []string{"stderr"}
	log, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
