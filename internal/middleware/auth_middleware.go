// internal/middleware/auth_middleware.go
package middleware

import (
	"strings"

	"greenwell-service/internal/pkg/response"
	"greenwell-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	authService *auth.AuthService
}

func NewAuthMiddleware(authService *auth.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Auth validates a bearer access token and loads its session identity into
// the request context.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "missing authorization token")
			return
		}

		claims, err := m.authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("jti", claims.ID)
		c.Set("mobile", claims.Mobile)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// AuthOrConflict accepts either a normal access token or a conflict-scoped
// token. Session revocation must work for a caller who cannot log in yet
// precisely because their sessions are full.
func (m *AuthMiddleware) AuthOrConflict() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "missing authorization token")
			return
		}

		if claims, err := m.authService.ValidateToken(c.Request.Context(), token); err == nil {
			c.Set("user_id", claims.UserID)
			c.Set("jti", claims.ID)
			c.Next()
			return
		}

		claims, err := m.authService.ValidateConflictToken(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("conflict_scoped", true)
		c.Next()
	}
}

// extractToken reads the Authorization header. The dashboard sends conflict
// tokens without the Bearer prefix, so both forms are accepted.
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
