package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

const internalErrorMessage = "Internal Server Error"

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	var partial *core.PartialCompletionError
	switch {
	case errors.As(err, &partial):
		return http.StatusInternalServerError
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidInput), errors.Is(err, core.ErrRateUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": message}. Server errors are logged and
// answered with a generic message.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := core.Message(err)
	if status >= http.StatusInternalServerError {
		ctx := c.Request.Context()
		fields := applog.NewFields().
			WithError(err).
			WithOperation(c.FullPath())
		var partial *core.PartialCompletionError
		if errors.As(err, &partial) {
			fields["mutated"] = partial.Mutated
		}
		applog.FromContext(ctx).ErrorContext(ctx, "Request failed", fields.ToSlice()...)
		msg = internalErrorMessage
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": msg})
}

func abortWithError(c *gin.Context, err error) {
	respondError(c, err)
	c.Abort()
}
