package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dreamsaver/internal/models/request_models"
	"dreamsaver/internal/models/response_models"
	"dreamsaver/internal/services"
	"dreamsaver/pkg/utils"
)

type InsightController struct {
	insightService services.InsightServiceInterface
}

func NewInsightController(insightService services.InsightServiceInterface) *InsightController {
	return &InsightController{
		insightService: insightService,
	}
}

// GenerateInsight godoc
// @Summary Interpret a dream
// @Description Returns the stored insight if one exists, otherwise generates one and counts it against the free quota
// @Tags Insights
// @Accept json
// @Produce json
// @Param request body request_models.GenerateInsightRequest true "Dream to interpret"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Security BearerAuth
// @Router /insights/generate [post]
func (i *InsightController) GenerateInsight(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.GenerateInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	insight, err := i.insightService.GenerateInsight(c.Request.Context(), userID, req.DreamID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c,
		response_models.GenerateInsightResponse{Insight: services.ToInsightResponse(insight)},
		"Insight generated successfully")
}
