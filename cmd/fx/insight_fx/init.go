package insight_fx

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"dreamsaver/internal/api/controllers"
	"dreamsaver/internal/config"
	"dreamsaver/internal/repositories"
	"dreamsaver/internal/services"
	"dreamsaver/pkg/middleware"
	"dreamsaver/pkg/utils"
)

var Module = fx.Provide(
	ProvideTextGenerator,
	ProvideInsightService,
	ProvideGenerateRateLimiter,
	controllers.NewInsightController)

// GenerateLimiter guards the insight endpoint; it is a distinct type so the
// router can ask for it by name.
type GenerateLimiter struct {
	*middleware.RateLimiter
}

// ProvideTextGenerator creates the interpretation backend selected by AI_PROVIDER.
func ProvideTextGenerator(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (utils.TextGenerator, error) {
	settings := utils.GenerationSettings{
		Temperature:     float32(cfg.AI.Temperature),
		MaxOutputTokens: int32(cfg.AI.MaxOutputTokens),
	}

	switch strings.ToLower(cfg.AI.Provider) {
	case "openai":
		settings.Model = cfg.AI.OpenAIModel
		log.Info("initializing text generator", zap.String("provider", "openai"), zap.String("model", settings.Model))
		return utils.NewOpenAIClient(cfg.AI.OpenAIAPIKey, settings, ""), nil
	case "gemini":
		settings.Model = cfg.AI.GeminiModel
		log.Info("initializing text generator", zap.String("provider", "gemini"), zap.String("model", settings.Model))
		client, err := utils.NewGeminiClient(context.Background(), cfg.AI.GeminiAPIKey, settings, "")
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		lc.Append(fx.StopHook(client.Close))
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s. Use 'openai' or 'gemini'", cfg.AI.Provider)
	}
}

// ProvideInsightService creates the insight service with all dependencies
func ProvideInsightService(
	profiles repositories.ProfileRepository,
	dreams repositories.DreamRepository,
	insights repositories.InsightRepository,
	generator utils.TextGenerator,
	cfg *config.Config,
	log *zap.Logger,
) services.InsightServiceInterface {
	return services.NewInsightService(profiles, dreams, insights, generator, cfg, log)
}

func ProvideGenerateRateLimiter(cfg *config.Config, log *zap.Logger) GenerateLimiter {
	return GenerateLimiter{middleware.NewRateLimiter(cfg.Quota.GenerateRPS, cfg.Quota.GenerateBurst, log.Named("ratelimit"))}
}
