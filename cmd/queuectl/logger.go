package main

import (
	"strings"

	"go.uber.org/zap"
)

// newLogger builds a *zap.SugaredLogger per level ("debug", "info",
// "warn", "error"; default "info"), matching the level-selection pattern
// used elsewhere in the retrieval pack's zap-based services.
func newLogger(level string) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = "ts"

	var lvl zap.AtomicLevel
	switch strings.ToLower(level) {
	case "debug":
		lvl = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		lvl = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		lvl = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Level = lvl

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
