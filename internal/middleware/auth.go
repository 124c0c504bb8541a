package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rentflow/rentauth/internal/token"
	"github.com/rentflow/rentauth/pkg/response"
)

const ContextUserID = "user_id"

// AuthRequired checks for a live, signed access token. Liveness is enforced
// here, unlike the refresh flow, where signature validity alone is checked.
func AuthRequired(signer *token.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, response.CodeAccessTokenInvalid, "authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, response.CodeAccessTokenInvalid, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := signer.Parse(parts[1])
		if err != nil {
			response.Unauthorized(c, response.CodeAccessTokenInvalid, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Next()
	}
}

// GetUserID gets the authenticated user id from context.
func GetUserID(c *gin.Context) string {
	if id, exists := c.Get(ContextUserID); exists {
		return id.(string)
	}
	return ""
}
