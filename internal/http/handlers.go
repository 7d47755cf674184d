package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	applog "fintrack/internal/log"
)

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) readiness(c *gin.Context) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// authorizeRecord checks that the caller may act on a record owned by owner
// and writes the error response when not.
func authorizeRecord(c *gin.Context, owner string) bool {
	if err := authorizeUser(c, owner); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

// authorizeParam is authorizeRecord for a userId path parameter.
func authorizeParam(c *gin.Context) (string, bool) {
	userID := c.Param("userId")
	return userID, authorizeRecord(c, userID)
}
