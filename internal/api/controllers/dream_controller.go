package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dreamsaver/internal/models/request_models"
	"dreamsaver/internal/services"
	"dreamsaver/pkg/utils"
)

type DreamController struct {
	dreamService services.DreamServiceInterface
}

func NewDreamController(dreamService services.DreamServiceInterface) *DreamController {
	return &DreamController{
		dreamService: dreamService,
	}
}

// CreateDream godoc
// @Summary Save a dream
// @Tags Dreams
// @Accept json
// @Produce json
// @Param request body request_models.CreateDreamRequest true "Dream payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /dreams [post]
func (d *DreamController) CreateDream(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.CreateDreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	dream, err := d.dreamService.CreateDream(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, dream, "Dream saved successfully")
}

// ListDreams godoc
// @Summary List the caller's dreams, newest first
// @Tags Dreams
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /dreams [get]
func (d *DreamController) ListDreams(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dreams, err := d.dreamService.ListDreams(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, dreams, "Fetched dreams successfully")
}

// GetDream godoc
// @Summary Dream with its insight, if any
// @Tags Dreams
// @Produce json
// @Param id path string true "Dream ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /dreams/{id} [get]
func (d *DreamController) GetDream(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	detail, err := d.dreamService.GetDream(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, detail, "Fetched dream successfully")
}

// SimilarDreams godoc
// @Summary Nearest dreams by embedding similarity
// @Tags Dreams
// @Produce json
// @Param id path string true "Dream ID"
// @Param limit query int false "Max results (1-20, default 5)"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 501 {object} utils.APIResponse
// @Security BearerAuth
// @Router /dreams/{id}/similar [get]
func (d *DreamController) SimilarDreams(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultSimilarLimit)))
	if err != nil || limit < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit")
		return
	}

	similar, err := d.dreamService.SimilarDreams(c.Request.Context(), userID, c.Param("id"), limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, similar, "Fetched similar dreams successfully")
}
