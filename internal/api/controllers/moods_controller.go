package controllers

import (
	"github.com/gin-gonic/gin"

	"dreamsaver/internal/services"
	"dreamsaver/pkg/utils"
)

type MoodController struct{}

func NewMoodController() *MoodController {
	return &MoodController{}
}

func (mc *MoodController) ListMoodsHandler(c *gin.Context) {
	utils.RespondSuccess(c, services.MoodCatalog(), "Fetched moods successfully")
}
