package config_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"dreamsaver/internal/config"
	"dreamsaver/pkg/logger"
)

var Module = fx.Options(
	fx.Provide(config.Load, provideLogger),
	fx.Invoke(replaceGlobalLogger),
)

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() {
		_ = log.Sync()
	}))
	return log, nil
}

// utils.HandleServiceError logs through zap.L().
func replaceGlobalLogger(log *zap.Logger) {
	zap.ReplaceGlobals(log)
}
