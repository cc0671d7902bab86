package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"inventra-backend/inventory-service/middleware"
	"inventra-backend/shared/database/models"
	authmodels "inventra-backend/shared/database/models/auth"
	"inventra-backend/shared/utils/ownership"
)

// propertyOfCaller resolves the property through the chain matching the
// caller's role.
func propertyOfCaller(ctx *gin.Context, db *gorm.DB) (*models.Property, error) {
	if ctx.GetString("principalRole") == authmodels.RoleAdmin {
		_, property, err := ownership.PropertyOfAdmin(db, middleware.CurrentAdmin(ctx))
		return property, err
	}
	_, property, err := ownership.PropertyOfEmployee(db, middleware.CurrentEmployee(ctx))
	return property, err
}
