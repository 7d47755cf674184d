package log

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type contextKey string

const (
	loggerContextKey    contextKey = "logger"
	requestIDContextKey contextKey = "request_id"

	// RequestIDHeader is echoed back on every response.
	RequestIDHeader = "X-Request-ID"
)

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

// FromContext extracts the request logger, falling back to the slog default.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{Logger: slog.Default(), component: "unknown"}
}

// RequestID returns the id assigned by RequestLogger, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// RequestLogger assigns every request an id, stores a request-scoped logger
// in the request context and logs start and completion.
func RequestLogger(logger *Logger) gin.HandlerFunc {
	httpLogger := logger.WithComponent(ComponentHTTP)
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		reqLogger := httpLogger.With(FieldRequestID, requestID)
		ctx := context.WithValue(c.Request.Context(), requestIDContextKey, requestID)
		ctx = WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		r := c.Request
		reqLogger.DebugContext(ctx, "HTTP request started",
			NewFields().
				WithHTTPRequest(r.Method, r.URL.Path, c.FullPath(), r.URL.RawQuery, r.UserAgent()).
				WithClientIP(c.ClientIP()).
				ToSlice()...)

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		fields := NewFields().
			WithHTTPRequest(r.Method, r.URL.Path, c.FullPath(), "", "").
			WithHTTPResponse(status, time.Since(start)).
			WithClientIP(c.ClientIP())
		if len(c.Errors) > 0 {
			fields[FieldError] = c.Errors.String()
		}
		reqLogger.Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
	}
}
