package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

type errorMapping struct {
	target  error
	code    int
	message string
}

// Order matters only where one sentinel wraps another; checked top to bottom.
var serviceErrors = []errorMapping{
	{ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{ErrInvalidResetToken, http.StatusUnauthorized, "Invalid or expired reset token"},
	{ErrInvalidInput, http.StatusBadRequest, "Invalid request"},
	{ErrInvalidMood, http.StatusBadRequest, "Unknown mood tag"},
	{ErrInvalidSignature, http.StatusBadRequest, "Invalid signature"},
	{ErrInvalidPayload, http.StatusBadRequest, "Invalid webhook payload"},
	{ErrNoStripeCustomer, http.StatusBadRequest, "No billing account for this user"},
	{ErrQuotaExceeded, http.StatusForbidden, "Insight limit reached. Please upgrade to Pro."},
	{ErrProfileNotFound, http.StatusNotFound, "Profile not found"},
	{ErrDreamNotFound, http.StatusNotFound, "Dream not found"},
	{ErrAccountNotFound, http.StatusNotFound, "Account not found"},
	{ErrEmailAlreadyExists, http.StatusConflict, "Email is already registered"},
	{ErrRateLimited, http.StatusTooManyRequests, "Too many requests, slow down"},
	{ErrUpstreamUnavailable, http.StatusInternalServerError, "Failed to generate insight"},
	{ErrEmptyResponse, http.StatusInternalServerError, "Empty response from insight generator"},
	{ErrPersistence, http.StatusInternalServerError, "Failed to save insight"},
	{ErrSimilarityDisabled, http.StatusNotImplemented, "Similar dreams are not enabled"},
	{ErrBillingNotConfigured, http.StatusNotImplemented, "Billing is not configured"},
}

// StatusForError returns the HTTP status and user-facing message for a service error.
func StatusForError(err error) (int, string) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			return m.code, m.message
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

func HandleServiceError(c *gin.Context, err error) {
	code, message := StatusForError(err)
	if code >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("trace_id", c.GetString("trace_id")),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	RespondError(c, code, message)
}
