package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"dreamsaver/internal/models/request_models"
	"dreamsaver/internal/services"
	"dreamsaver/pkg/utils"
)

type PaymentController struct {
	paymentService services.PaymentService
}

func NewPaymentController(paymentService services.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// CreateCheckout godoc
// @Summary Start a Pro subscription checkout
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CheckoutRequest false "Optional redirect URLs"
// @Success 200 {object} utils.APIResponse
// @Failure 501 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/checkout [post]
func (p *PaymentController) CreateCheckout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request request_models.CheckoutRequest
	if err := bindOptionalJSON(c, &request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	redirect, err := p.paymentService.CreateCheckoutSession(c.Request.Context(), userID, request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, redirect, "Checkout URL created successfully")
}

// CreatePortal godoc
// @Summary Open the billing portal
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.PortalRequest false "Optional return URL"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/portal [post]
func (p *PaymentController) CreatePortal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request request_models.PortalRequest
	if err := bindOptionalJSON(c, &request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	redirect, err := p.paymentService.CreatePortalSession(c.Request.Context(), userID, request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, redirect, "Portal URL created successfully")
}

// HandleWebhook receives Stripe events. The raw body is needed for signature
// verification, so it is read directly instead of bound.
func (p *PaymentController) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, services.MaxWebhookBodyBytes+1))
	if err != nil {
		utils.RespondError(c, http.StatusServiceUnavailable, "Error reading request body")
		return
	}
	if int64(len(payload)) > services.MaxWebhookBodyBytes {
		utils.RespondError(c, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	ack, err := p.paymentService.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, ack, "Webhook received")
}

// bindOptionalJSON accepts an empty body as the zero value.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
