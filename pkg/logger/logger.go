package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sampleloop/inventory-service/config"
)

// New builds a zap logger from the application logger config. Development
// environments get console encoding at debug level, everything else gets
// production JSON output.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.Encoding = "console"
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.TimeKey = "timestamp"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if lvl, err := zapcore.ParseLevel(cfg.Logger.Level); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	zcfg.DisableCaller = cfg.Logger.DisableCaller
	zcfg.DisableStacktrace = cfg.Logger.DisableStacktrace

	return zcfg.Build()
}

// Must panics when the logger cannot be created.
func Must(logger *zap.Logger, err error) *zap.Logger {
	if err != nil {
		panic(err)
	}
	return logger
}
