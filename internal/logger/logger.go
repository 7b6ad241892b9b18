package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"studymart-checkout/internal/config"
)

// New builds a zap logger from the LOG_LEVEL / LOG_FORMAT settings. Production
// environments get the production config, everything else the development one.
func New(logCfg config.Log, environment string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(logCfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	switch logCfg.Format {
	case "json":
		cfg.Encoding = "json"
		cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	case "console":
		cfg.Encoding = "console"
	default:
		return nil, fmt.Errorf("unknown log format %q", logCfg.Format)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	return cfg.Build()
}
