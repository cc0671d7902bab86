package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"inventra-backend/shared/database"
	"inventra-backend/shared/database/models"
	authmodels "inventra-backend/shared/database/models/auth"
	utils "inventra-backend/shared/utils/auth"
	"inventra-backend/shared/utils/cache"
)

const (
	contextRoleKey     = "principalRole"
	contextAdminKey    = "currentAdmin"
	contextEmployeeKey = "currentEmployee"
)

// IdentityMiddleware validates the bearer token and resolves the principal
// row it names. The role claim decides which table is consulted; a token
// whose principal no longer exists is rejected with 404.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(401, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(401, gin.H{"error": "Invalid authorization format. Expected Bearer {token}"})
			c.Abort()
			return
		}

		tokenString := tokenParts[1]

		if cm := cache.GetCacheManager(); cm != nil && len(tokenString) >= 32 {
			if cm.IsTokenBlacklisted(tokenString[:32]) {
				c.JSON(401, gin.H{"error": "Token has been revoked"})
				c.Abort()
				return
			}
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			c.JSON(401, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		principalID, err := uuid.Parse(claims.PrincipalID)
		if err != nil {
			c.JSON(401, gin.H{"error": "Invalid principal ID in token"})
			c.Abort()
			return
		}

		switch claims.Role {
		case authmodels.RoleAdmin:
			var admin models.Admin
			if err := database.DB.First(&admin, principalID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(404, gin.H{"error": "Not Found", "message": "admin not found"})
				} else {
					c.JSON(500, gin.H{"error": "Internal Server Error", "message": "failed to resolve principal"})
				}
				c.Abort()
				return
			}
			c.Set(contextAdminKey, &admin)
		case authmodels.RoleEmployee:
			var employee models.Employee
			if err := database.DB.First(&employee, principalID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(404, gin.H{"error": "Not Found", "message": "employee not found"})
				} else {
					c.JSON(500, gin.H{"error": "Internal Server Error", "message": "failed to resolve principal"})
				}
				c.Abort()
				return
			}
			c.Set(contextEmployeeKey, &employee)
		default:
			c.JSON(401, gin.H{"error": "Unknown role in token"})
			c.Abort()
			return
		}

		c.Set(contextRoleKey, claims.Role)

		c.Next()
	}
}

// RequireAdmin rejects requests whose token doesn't carry the ADMIN role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(contextRoleKey) != authmodels.RoleAdmin {
			c.JSON(403, gin.H{"error": "Unauthorized", "message": "admin role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireEmployee rejects requests whose token doesn't carry the EMPLOYEE role.
func RequireEmployee() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(contextRoleKey) != authmodels.RoleEmployee {
			c.JSON(403, gin.H{"error": "Unauthorized", "message": "employee role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentAdmin returns the resolved admin. Only valid after IdentityMiddleware
// and RequireAdmin have run.
func CurrentAdmin(c *gin.Context) *models.Admin {
	return c.MustGet(contextAdminKey).(*models.Admin)
}

// CurrentEmployee returns the resolved employee. Only valid after
// IdentityMiddleware and RequireEmployee have run.
func CurrentEmployee(c *gin.Context) *models.Employee {
	return c.MustGet(contextEmployeeKey).(*models.Employee)
}
