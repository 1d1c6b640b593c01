package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/scholars-edge/academy-api/internal/service"
	appErrors "github.com/scholars-edge/academy-api/pkg/errors"
	"github.com/scholars-edge/academy-api/pkg/response"
)

// ContextUserKey is the gin context key storing the authenticated user.
const ContextUserKey = "currentUser"

// RequireSession protects routes by requiring a valid, unexpired session.
// The gate runs before any handler touches persistence: missing cookie,
// unknown token, expired session, and vanished user all yield 401. Note that
// isAdmin is deliberately not consulted; any authenticated user passes.
func RequireSession(authService *service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		user, err := authService.ResolveSession(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}
