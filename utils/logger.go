package utils

import (
	"log"

	"zenflow/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide zap logger. Handlers and services reach it
// through GetLogger rather than threading it everywhere.
var Logger *zap.Logger

// InitializeLogger builds the global logger: JSON output in production,
// colored console output everywhere else. LOG_LEVEL overrides the default
// level (info in production, debug otherwise) when set.
func InitializeLogger() {
	var cfg zap.Config
	level := zap.DebugLevel

	if config.IsProduction() {
		cfg = zap.NewProductionConfig()
		level = zap.InfoLevel
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if raw := config.AppConfig.LogLevel; raw != "" {
		if parsed, err := zapcore.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	var err error
	Logger, err = cfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
}

// GetLogger returns the global logger, initializing it on first use.
func GetLogger() *zap.Logger {
	if Logger == nil {
		InitializeLogger()
	}
	return Logger
}
