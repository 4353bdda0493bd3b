package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dreamsaver/internal/config"
)

// New builds the process logger. Production uses JSON output, everything
// else the human friendly console encoder.
func New(cfg *config.Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}

	var zc zap.Config
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level

	log, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("service", "dreamsaver")), nil
}
