package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/salvadorklaude/powerhouse-store/internal/domain"
	"github.com/salvadorklaude/powerhouse-store/internal/service"
	"github.com/salvadorklaude/powerhouse-store/pkg/response"
)

const (
	// ContextUserIDKey is the context key for the authenticated user id
	ContextUserIDKey = "user_id"
	// ContextRoleKey is the context key for the authenticated role
	ContextRoleKey = "role"
	// ContextTokenKey is the context key for the raw bearer token
	ContextTokenKey = "token"
)

// TokenFromHeader extracts the bearer token from the Authorization header,
// or "" when absent/malformed.
func TokenFromHeader(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return header[len(prefix):]
}

// Authenticate validates the bearer token and stores the resolved identity
// in the request context. This is the authoritative check; any client-side
// guard is advisory only.
func Authenticate(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromHeader(c)
		if token == "" {
			response.Unauthenticated(c)
			c.Abort()
			return
		}

		claims, err := auth.Resolve(c.Request.Context(), token)
		if err != nil {
			response.Unauthenticated(c)
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, string(claims.Role))
		c.Set(ContextTokenKey, token)
		c.Next()
	}
}

// RequireRole gates a route group on the authenticated role. Runs after
// Authenticate.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRoleKey) != string(role) {
			response.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
