package dashboard

import (
	"go.uber.org/fx"

	"dreamsaver/internal/api/controllers"
	"dreamsaver/internal/config"
	"dreamsaver/internal/repositories"
	"dreamsaver/internal/services"
)

var Module = fx.Provide(
	provideDashboardService, controllers.NewDashboardController,
)

func provideDashboardService(profiles repositories.ProfileRepository, dreams repositories.DreamRepository, cfg *config.Config) services.DashboardService {
	return services.NewDashboardService(profiles, dreams, cfg)
}
