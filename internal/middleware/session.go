package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/logger"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/response"
)

// ContextUserKey is the gin context key storing the authenticated principal.
const ContextUserKey = "currentUser"

// Authenticator resolves a portal token into the signed-in principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Principal, error)
}

// Session protects routes by requiring a valid portal session token.
func Session(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		principal, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, principal)
		c.Set(logger.RoleContextKey, string(principal.Role))
		if principal.Loading {
			SetSessionLoading(c, true)
		}
		c.Next()
	}
}

// SetPrincipal stores the principal of a session opened by the current
// request, so later middleware such as Audit can attribute it.
func SetPrincipal(c *gin.Context, principal *models.Principal) {
	if principal == nil {
		return
	}
	c.Set(ContextUserKey, principal)
	c.Set(logger.RoleContextKey, string(principal.Role))
}

// CurrentPrincipal returns the principal stored by Session.
func CurrentPrincipal(c *gin.Context) (*models.Principal, bool) {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	principal, ok := value.(*models.Principal)
	return principal, ok && principal != nil
}
