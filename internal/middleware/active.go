package middleware

import (
	"gift_registry/internal/auth" // Identity validation
	"net/http"                    // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequireActiveUser re-checks the caller against the credential store on each
// request. Mounted on routes where a still-valid token from a deactivated or
// deleted account must stop working immediately, instead of at token expiry.
func RequireActiveUser(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Set by the token guard
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Deleted and deactivated accounts both resolve to no identity
		if _, err := svc.ValidateUser(c.Request.Context(), userID.(string)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
