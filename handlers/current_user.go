package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserInfoRelay fetches the raw user info document of the caller.
type UserInfoRelay interface {
	Relay(ctx context.Context, authHeader string) (int, []byte, error)
}

type CurrentUserHandler struct {
	Identity UserInfoRelay
}

// GetCurrentUser passes the identity service's answer through unchanged.
func (h *CurrentUserHandler) GetCurrentUser(c *gin.Context) {
	status, body, err := h.Identity.Relay(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		zap.L().Warn("current user relay failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch current user"})
		return
	}
	if status != http.StatusOK {
		c.JSON(status, gin.H{"error": "Failed to fetch current user"})
		return
	}
	c.Data(status, "application/json", body)
}
