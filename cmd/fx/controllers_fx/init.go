package controllers_fx

import (
	"go.uber.org/fx"

	"dreamsaver/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewMoodController))
