package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	utils "inventra-backend/shared/utils/auth"
)

// AuthMiddleware validates the bearer token and puts the principal into the context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token is required"})
			c.Abort()
			return
		}

		// The first 32 characters identify the token in the blacklist
		if len(tokenString) >= 32 {
			c.Set("tokenHash", tokenString[:32])
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		principalID, err := uuid.Parse(claims.PrincipalID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid principal ID in token"})
			c.Abort()
			return
		}

		c.Set("principalID", principalID)
		c.Set("principalEmail", claims.Email)
		c.Set("principalRole", claims.Role)

		c.Next()
	}
}
