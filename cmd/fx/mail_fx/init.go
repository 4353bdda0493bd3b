package mail_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"dreamsaver/internal/config"
	"dreamsaver/internal/services"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg *config.Config, log *zap.Logger) services.IMailService {
	return services.NewSendGridMailService(cfg.Mail, log)
}
