package dream_fx

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dreamsaver/internal/api/controllers"
	"dreamsaver/internal/config"
	"dreamsaver/internal/repositories"
	"dreamsaver/internal/services"
	"dreamsaver/pkg/utils"
)

var Module = fx.Provide(
	provideDreamRepo,
	provideInsightRepo,
	provideEmbeddingRepo,
	ProvideEmbeddingClient,
	provideDreamService,
	controllers.NewDreamController)

func provideDreamRepo(db *gorm.DB) repositories.DreamRepository {
	return repositories.NewDreamRepository(db)
}

func provideInsightRepo(db *gorm.DB) repositories.InsightRepository {
	return repositories.NewInsightRepository(db)
}

func provideEmbeddingRepo(db *gorm.DB) repositories.DreamEmbeddingRepository {
	return repositories.NewDreamEmbeddingRepository(db)
}

// ProvideEmbeddingClient returns a nil client when similarity search is
// switched off, which the dream service treats as disabled.
func ProvideEmbeddingClient(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (utils.EmbeddingClient, error) {
	provider := strings.ToLower(cfg.Embedding.Provider)

	switch provider {
	case "", "none":
		log.Info("dream similarity disabled")
		return nil, nil
	case "openai":
		if cfg.AI.OpenAIAPIKey == "" {
			log.Warn("EMBEDDING_PROVIDER=openai without OPENAI_API_KEY, similarity disabled")
			return nil, nil
		}
		log.Info("initializing embedding client", zap.String("provider", provider))
		return utils.NewOpenAIClient(cfg.AI.OpenAIAPIKey, utils.GenerationSettings{}, cfg.Embedding.Model), nil
	case "gemini":
		if cfg.AI.GeminiAPIKey == "" {
			log.Warn("EMBEDDING_PROVIDER=gemini without GEMINI_API_KEY, similarity disabled")
			return nil, nil
		}
		log.Info("initializing embedding client", zap.String("provider", provider))
		client, err := utils.NewGeminiClient(context.Background(), cfg.AI.GeminiAPIKey, utils.GenerationSettings{}, cfg.Embedding.Model)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(client.Close))
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s. Use 'openai', 'gemini' or 'none'", cfg.Embedding.Provider)
	}
}

func provideDreamService(
	dreams repositories.DreamRepository,
	insights repositories.InsightRepository,
	embeddings repositories.DreamEmbeddingRepository,
	embedder utils.EmbeddingClient,
	log *zap.Logger,
) services.DreamServiceInterface {
	return services.NewDreamService(dreams, insights, embeddings, embedder, log)
}
