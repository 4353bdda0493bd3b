package payment_service_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dreamsaver/internal/api/controllers"
	"dreamsaver/internal/config"
	"dreamsaver/internal/repositories"
	"dreamsaver/internal/services"
)

var Module = fx.Provide(
	provideStripeGateway,
	provideBillingEventRepo,
	providePaymentService,
	controllers.NewPaymentController,
)

// A nil gateway leaves the payment routes answering 501.
func provideStripeGateway(cfg *config.Config, log *zap.Logger) services.StripeGateway {
	if cfg.Stripe.SecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY not set, billing disabled")
		return nil
	}
	return services.NewStripeGateway(cfg.Stripe.SecretKey)
}

func provideBillingEventRepo(db *gorm.DB) repositories.BillingEventRepository {
	return repositories.NewBillingEventRepository(db)
}

func providePaymentService(
	gateway services.StripeGateway,
	profiles repositories.ProfileRepository,
	events repositories.BillingEventRepository,
	cfg *config.Config,
	log *zap.Logger,
) services.PaymentService {
	return services.NewPaymentService(gateway, profiles, events, cfg, log)
}
