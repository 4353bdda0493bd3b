package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dreamsaver/internal/api/controllers"
	"dreamsaver/internal/config"
	"dreamsaver/internal/repositories"
	"dreamsaver/internal/services"
	mem "dreamsaver/pkg/memcache"
	"dreamsaver/pkg/middleware"
	"dreamsaver/pkg/utils"
)

var Module = fx.Provide(
	provideAccountRepo,
	provideProfileRepo,
	provideTokenIssuer,
	provideAccountService,
	ProvideResetRateLimiter,
	controllers.NewAccountController)

// ResetLimiter throttles the unauthenticated password reset routes by client IP.
type ResetLimiter struct {
	*middleware.RateLimiter
}

func ProvideResetRateLimiter(cfg *config.Config, log *zap.Logger) ResetLimiter {
	return ResetLimiter{middleware.NewRateLimiter(cfg.Auth.ResetRPS, cfg.Auth.ResetBurst, log.Named("ratelimit"))}
}

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideProfileRepo(db *gorm.DB) repositories.ProfileRepository {
	return repositories.NewProfileRepository(db)
}

func provideTokenIssuer(cfg *config.Config) *utils.TokenIssuer {
	return utils.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
}

func provideAccountService(
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	dreams services.DreamServiceInterface,
	mailService services.IMailService,
	issuer *utils.TokenIssuer,
	resetTokens mem.ResetTokenStore,
	revoked mem.RevocationList,
	cfg *config.Config,
	log *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, profileRepo, dreams, mailService, issuer, resetTokens, revoked, cfg, log)
}
