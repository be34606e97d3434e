package middleware

import (
	"gift_registry/internal/auth" // Token parsing
	"net/http"                    // HTTP status codes
	"strings"                     // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

// TokenAuthMiddleware is the per-request access guard: it extracts the bearer
// token, verifies signature and expiry, and attaches the resolved claims to
// the request context. Public routes are simply not mounted behind it.
// The guard trusts verified claims without a store read; handlers that need
// current store truth (for example, the active flag) re-fetch explicitly.
func TokenAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		claims, err := auth.ParseToken(tokenStr, secret)
		if err != nil {
			// Bad signature, malformed or expired
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set("userID", claims.Subject) // Store caller identity in context
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}
