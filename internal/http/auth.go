package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

const claimsKey = "claims"

var (
	errMissingToken = core.Errorf(core.ErrUnauthorized, "Authorization token required")
	errAdminOnly    = core.Errorf(core.ErrForbidden, "Admin access required")
	errNotOwner     = core.Errorf(core.ErrForbidden, "You are not allowed to access this resource")
)

// requireAuth verifies the bearer token and stores its claims in the context.
func (h *handlers) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		abortWithError(c, errMissingToken)
		return
	}
	claims, err := h.tokens.Parse(strings.TrimSpace(token))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Set(claimsKey, claims)

	ctx := c.Request.Context()
	logger := applog.FromContext(ctx).With(applog.FieldUserID, claims.UserID())
	c.Request = c.Request.WithContext(applog.WithLogger(ctx, logger))
	c.Next()
}

func requireAdmin(c *gin.Context) {
	if !claimsFrom(c).IsAdmin() {
		abortWithError(c, errAdminOnly)
		return
	}
	c.Next()
}

func claimsFrom(c *gin.Context) auth.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(auth.Claims); ok {
			return claims
		}
	}
	return auth.Claims{}
}

// authorizeUser allows admins and the user themselves.
func authorizeUser(c *gin.Context, userID string) error {
	claims := claimsFrom(c)
	if claims.IsAdmin() || claims.UserID() == userID {
		return nil
	}
	return errNotOwner
}

// ownUserID resolves the userId of a create request: regular users default to
// themselves and may not act for someone else.
func ownUserID(c *gin.Context, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	claims := claimsFrom(c)
	if requested == "" && !claims.IsAdmin() {
		return claims.UserID(), nil
	}
	if err := authorizeUser(c, requested); err != nil {
		return "", err
	}
	return requested, nil
}
