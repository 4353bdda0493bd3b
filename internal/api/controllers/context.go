package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dreamsaver/pkg/middleware"
	"dreamsaver/pkg/utils"
)

// currentUserID reads the authenticated user set by JWTAuthMiddleware. It
// writes a 401 and returns false when the id is missing or malformed.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.GetString(middleware.ContextUserID))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

func currentTokenExpiry(c *gin.Context) time.Time {
	if v, ok := c.Get(middleware.ContextTokenExp); ok {
		if exp, ok := v.(time.Time); ok {
			return exp
		}
	}
	return time.Time{}
}
