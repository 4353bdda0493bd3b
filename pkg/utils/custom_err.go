package utils

import "errors"

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidMood          = errors.New("invalid mood tag")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrDreamNotFound        = errors.New("dream not found")
	ErrAccountNotFound      = errors.New("account not found")
	ErrQuotaExceeded        = errors.New("insight quota exceeded")
	ErrUpstreamUnavailable  = errors.New("text generation upstream unavailable")
	ErrEmptyResponse        = errors.New("empty response from text generation upstream")
	ErrPersistence          = errors.New("failed to persist insight")
	ErrDatabaseError        = errors.New("database error")
	ErrEmailAlreadyExists   = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidResetToken    = errors.New("invalid or expired reset token")
	ErrRateLimited          = errors.New("rate limit exceeded")
	ErrSimilarityDisabled   = errors.New("similar dream search is not enabled")
	ErrBillingNotConfigured = errors.New("billing not configured")
	ErrNoStripeCustomer     = errors.New("no billing customer for user")
	ErrInvalidSignature     = errors.New("invalid webhook signature")
	ErrInvalidPayload       = errors.New("invalid webhook payload")
)
