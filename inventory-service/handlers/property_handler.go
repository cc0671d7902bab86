package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inventra-backend/inventory-service/middleware"
	"inventra-backend/shared/database"
	"inventra-backend/shared/database/models"
	"inventra-backend/shared/utils/apperrors"
	"inventra-backend/shared/utils/ownership"
)

// CreatePropertyRequest represents request body for creating a property
type CreatePropertyRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdatePropertyRequest represents request body for renaming a property
type UpdatePropertyRequest struct {
	Name string `json:"name" binding:"required"`
}

// PropertyResponse represents property data for API responses
type PropertyResponse struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	CreatedAt      string    `json:"created_at"`
	UpdatedAt      string    `json:"updated_at"`
}

func toPropertyResponse(property *models.Property) PropertyResponse {
	return PropertyResponse{
		ID:             property.ID,
		OrganizationID: property.OrganizationID,
		Name:           property.Name,
		CreatedAt:      property.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      property.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreateProperty creates the organization's property
// @Summary Create property
// @Description Create the single property of the authenticated admin's organization
// @Tags properties
// @Accept json
// @Produce json
// @Param property body CreatePropertyRequest true "Property information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created property"
// @Failure 400 {object} map[string]string "Invalid request data or admin doesn't own an organization"
// @Failure 409 {object} map[string]string "Organization already has a property"
// @Failure 500 {object} map[string]string "Server error"
// @Router /properties [post]
func CreateProperty(ctx *gin.Context) {
	admin := middleware.CurrentAdmin(ctx)

	var req CreatePropertyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	db := database.DB.WithContext(ctx.Request.Context())

	org, err := ownership.OrganizationOfAdmin(db, admin)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	// Check if organization already has a property
	var existingCount int64
	db.Model(&models.Property{}).Where("organization_id = ?", org.ID).Count(&existingCount)
	if existingCount > 0 {
		ctx.JSON(http.StatusConflict, gin.H{
			"error":   "Property already exists",
			"message": "The organization already has a property",
		})
		return
	}

	property := models.Property{
		OrganizationID: org.ID,
		Name:           req.Name,
	}
	if err := db.Create(&property).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create property",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Property created successfully",
		"data":    toPropertyResponse(&property),
	})
}

// GetProperty retrieves the caller's property
// @Summary Get property
// @Description Get the property reachable through the caller's ownership chain
// @Tags properties
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Property data"
// @Failure 400 {object} map[string]string "Broken ownership chain"
// @Failure 500 {object} map[string]string "Server error"
// @Router /properties/me [get]
func GetProperty(ctx *gin.Context) {
	db := database.DB.WithContext(ctx.Request.Context())

	property, err := propertyOfCaller(ctx, db)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toPropertyResponse(property),
	})
}

// UpdateProperty renames the admin's property
// @Summary Update property
// @Description Rename the property of the authenticated admin's organization
// @Tags properties
// @Accept json
// @Produce json
// @Param property body UpdatePropertyRequest true "Updated property information"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated property"
// @Failure 400 {object} map[string]string "Invalid request data or broken ownership chain"
// @Failure 500 {object} map[string]string "Server error"
// @Router /properties [put]
func UpdateProperty(ctx *gin.Context) {
	admin := middleware.CurrentAdmin(ctx)

	var req UpdatePropertyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	db := database.DB.WithContext(ctx.Request.Context())

	_, property, err := ownership.PropertyOfAdmin(db, admin)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	property.Name = req.Name
	if err := database.SaveOrFail(db, property); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Property updated successfully",
		"data":    toPropertyResponse(property),
	})
}
