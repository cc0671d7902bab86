package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"inventra-backend/inventory-service/middleware"
	"inventra-backend/shared/database"
	"inventra-backend/shared/database/models"
	"inventra-backend/shared/utils/apperrors"
	"inventra-backend/shared/utils/ownership"
)

// CreateOrganizationRequest represents request body for creating organization
type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateOrganizationRequest represents request body for renaming organization
type UpdateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
}

// OrganizationResponse represents organization data for API responses
type OrganizationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

func toOrganizationResponse(org *models.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		CreatedAt: org.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: org.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreateOrganization creates a new organization and binds it to the calling admin
// @Summary Create organization
// @Description Create a new organization owned by the authenticated admin
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body CreateOrganizationRequest true "Organization information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created organization"
// @Failure 400 {object} map[string]string "Invalid request data or admin already owns an organization"
// @Failure 409 {object} map[string]string "Name already exists"
// @Failure 500 {object} map[string]string "Server error"
// @Router /organizations [post]
func CreateOrganization(ctx *gin.Context) {
	admin := middleware.CurrentAdmin(ctx)

	var req CreateOrganizationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	db := database.DB.WithContext(ctx.Request.Context())

	// Check if admin already owns an organization
	if admin.OrganizationID != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad request",
			"message": "admin already owns an organization",
		})
		return
	}

	// Check if name already exists
	var existing models.Organization
	if err := db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		ctx.JSON(http.StatusConflict, gin.H{
			"error":   "Name already exists",
			"message": "An organization with this name already exists",
		})
		return
	}

	var org models.Organization
	err := db.Transaction(func(tx *gorm.DB) error {
		org = models.Organization{Name: req.Name}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}

		admin.OrganizationID = &org.ID
		return database.SaveOrFail(tx, admin)
	})
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Organization created successfully",
		"data":    toOrganizationResponse(&org),
	})
}

// GetMyOrganization retrieves the calling admin's organization
// @Summary Get own organization
// @Description Get the organization owned by the authenticated admin
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Organization data"
// @Failure 400 {object} map[string]string "Admin doesn't own an organization"
// @Failure 500 {object} map[string]string "Server error"
// @Router /organizations/me [get]
func GetMyOrganization(ctx *gin.Context) {
	admin := middleware.CurrentAdmin(ctx)

	db := database.DB.WithContext(ctx.Request.Context())

	org, err := ownership.OrganizationOfAdmin(db, admin)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toOrganizationResponse(org),
	})
}

// UpdateOrganization renames the calling admin's organization
// @Summary Update organization
// @Description Rename the organization owned by the authenticated admin
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body UpdateOrganizationRequest true "Updated organization information"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated organization"
// @Failure 400 {object} map[string]string "Invalid request data"
// @Failure 409 {object} map[string]string "Name already exists"
// @Failure 500 {object} map[string]string "Server error"
// @Router /organizations [put]
func UpdateOrganization(ctx *gin.Context) {
	admin := middleware.CurrentAdmin(ctx)

	var req UpdateOrganizationRequest
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

	// Check if name already exists (if name is being changed)
	if req.Name != org.Name {
		var existing models.Organization
		if err := db.Where("name = ? AND id != ?", req.Name, org.ID).First(&existing).Error; err == nil {
			ctx.JSON(http.StatusConflict, gin.H{
				"error":   "Name already exists",
				"message": "An organization with this name already exists",
			})
			return
		}
	}

	org.Name = req.Name
	if err := database.SaveOrFail(db, org); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Organization updated successfully",
		"data":    toOrganizationResponse(org),
	})
}

// DeleteOrganization deletes the calling admin's organization
// @Summary Delete organization
// @Description Delete the organization if it has no employees, property, or open invitations
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 400 {object} map[string]string "Admin doesn't own an organization"
// @Failure 409 {object} map[string]string "Organization has dependencies"
// @Failure 500 {object} map[string]string "Server error"
// @Router /organizations [delete]
func DeleteOrganization(ctx *gin.Context) {
	admin := middleware.CurrentAdmin(ctx)

	db := database.DB.WithContext(ctx.Request.Context())

	org, err := ownership.OrganizationOfAdmin(db, admin)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	// Check if organization has employees
	var employeeCount int64
	db.Model(&models.Employee{}).Where("organization_id = ?", org.ID).Count(&employeeCount)
	if employeeCount > 0 {
		ctx.JSON(http.StatusConflict, gin.H{
			"error":   "Organization has employees",
			"message": "Cannot delete organization that has employees",
		})
		return
	}

	// Check if organization has a property
	var propertyCount int64
	db.Model(&models.Property{}).Where("organization_id = ?", org.ID).Count(&propertyCount)
	if propertyCount > 0 {
		ctx.JSON(http.StatusConflict, gin.H{
			"error":   "Organization has a property",
			"message": "Cannot delete organization that has a property",
		})
		return
	}

	// Check if organization has open invitations
	var invitationCount int64
	db.Model(&models.OrganizationInvitation{}).Where("organization_id = ?", org.ID).Count(&invitationCount)
	if invitationCount > 0 {
		ctx.JSON(http.StatusConflict, gin.H{
			"error":   "Organization has open invitations",
			"message": "Cannot delete organization that has open invitations",
		})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		admin.OrganizationID = nil
		if err := database.SaveOrFail(tx, admin); err != nil {
			return err
		}
		return database.DeleteOrFail(tx, org)
	})
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Organization deleted successfully",
	})
}

// GetOrganizationEmployees lists the employees of the admin's organization
// @Summary List organization employees
// @Description Get the employees that belong to the authenticated admin's organization
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Employees"
// @Failure 400 {object} map[string]string "Admin doesn't own an organization"
// @Failure 500 {object} map[string]string "Server error"
// @Router /organizations/employees [get]
func GetOrganizationEmployees(ctx *gin.Context) {
	admin := middleware.CurrentAdmin(ctx)

	db := database.DB.WithContext(ctx.Request.Context())

	org, err := ownership.OrganizationOfAdmin(db, admin)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	var employees []models.Employee
	if err := db.Where("organization_id = ?", org.ID).
		Order("last_name ASC, first_name ASC").
		Find(&employees).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve employees",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    employees,
	})
}
