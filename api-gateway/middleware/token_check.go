package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	utils "inventra-backend/shared/utils/auth"
	"inventra-backend/shared/utils/cache"
)

// TokenPrecheckMiddleware rejects requests with missing, invalid or revoked
// tokens before they reach a backend service. Principal resolution still
// happens inside the services; this only keeps obvious garbage off the wire.
func TokenPrecheckMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token is required"})
			c.Abort()
			return
		}

		if cm := cache.GetCacheManager(); cm != nil && len(tokenString) >= 32 {
			if cm.IsTokenBlacklisted(tokenString[:32]) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
				c.Abort()
				return
			}
		}

		if _, err := utils.ValidateJWT(tokenString); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
