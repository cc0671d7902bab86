package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inventra-backend/inventory-service/middleware"
	"inventra-backend/inventory-service/services"
	"inventra-backend/shared/config"
	"inventra-backend/shared/database"
	authmodels "inventra-backend/shared/database/models/auth"
	"inventra-backend/shared/utils/apperrors"
)

// CreateInvitationRequest represents request body for inviting an employee
type CreateInvitationRequest struct {
	EmployeeID  uuid.UUID `json:"employee_id" binding:"required"`
	Description string    `json:"description"`
}

// UpdateInvitationRequest represents request body for updating an invitation
type UpdateInvitationRequest struct {
	Description string `json:"description" binding:"required"`
}

func invitationService() *services.InvitationService {
	return services.NewInvitationService(database.DB, config.GetConfig())
}

// CreateInvitation invites an employee into the admin's organization
// @Summary Create invitation
// @Description Invite an employee; duplicate invitations and the per-organization open cap are rejected
// @Tags invitations
// @Accept json
// @Produce json
// @Param invitation body CreateInvitationRequest true "Invitation information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created invitation"
// @Failure 400 {object} map[string]string "Invalid request data or admin doesn't own an organization"
// @Failure 404 {object} map[string]string "Employee not found"
// @Failure 409 {object} map[string]string "Duplicate invitation or open invitation limit reached"
// @Failure 500 {object} map[string]string "Server error"
// @Router /invitations [post]
func CreateInvitation(ctx *gin.Context) {
	admin := middleware.CurrentAdmin(ctx)

	var req CreateInvitationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	invitation, err := invitationService().Create(ctx.Request.Context(), admin, req.EmployeeID, req.Description)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Invitation created successfully",
		"data":    invitation,
	})
}

// GetInvitations lists invitations visible to the caller
// @Summary Get invitations
// @Description Admins see their organization's open invitations; employees see invitations addressed to them
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Invitations"
// @Failure 400 {object} map[string]string "Admin doesn't own an organization"
// @Failure 500 {object} map[string]string "Server error"
// @Router /invitations [get]
func GetInvitations(ctx *gin.Context) {
	svc := invitationService()

	if ctx.GetString("principalRole") == authmodels.RoleAdmin {
		invitations, err := svc.ListForOrganization(ctx.Request.Context(), middleware.CurrentAdmin(ctx))
		if err != nil {
			apperrors.Respond(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"success": true, "data": invitations})
		return
	}

	invitations, err := svc.ListForEmployee(ctx.Request.Context(), middleware.CurrentEmployee(ctx))
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": invitations})
}

// AcceptInvitation moves the calling employee into the inviting organization
// @Summary Accept invitation
// @Description Join the inviting organization; fails if the employee already belongs to a different one
// @Tags invitations
// @Produce json
// @Param id path string true "Invitation ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 400 {object} map[string]string "Employee is already part of another organization"
// @Failure 403 {object} map[string]string "Invitation isn't addressed to the employee"
// @Failure 404 {object} map[string]string "Invitation or organization not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /invitations/{id}/accept [post]
func AcceptInvitation(ctx *gin.Context) {
	employee := middleware.CurrentEmployee(ctx)

	invitationUUID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid invitation ID format",
			"message": err.Error(),
		})
		return
	}

	if err := invitationService().Accept(ctx.Request.Context(), employee, invitationUUID); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Invitation accepted successfully",
	})
}

// UpdateInvitation rewrites an invitation's description
// @Summary Update invitation
// @Description Update the description as the issuing admin or the invited employee
// @Tags invitations
// @Accept json
// @Produce json
// @Param id path string true "Invitation ID" format(uuid)
// @Param invitation body UpdateInvitationRequest true "Updated invitation information"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 400 {object} map[string]string "Invalid request data or tenancy mismatch"
// @Failure 403 {object} map[string]string "Invitation isn't addressed to the employee"
// @Failure 404 {object} map[string]string "Invitation not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /invitations/{id} [put]
func UpdateInvitation(ctx *gin.Context) {
	invitationUUID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid invitation ID format",
			"message": err.Error(),
		})
		return
	}

	var req UpdateInvitationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	svc := invitationService()

	if ctx.GetString("principalRole") == authmodels.RoleAdmin {
		err = svc.UpdateAsAdmin(ctx.Request.Context(), middleware.CurrentAdmin(ctx), invitationUUID, req.Description)
	} else {
		err = svc.UpdateAsEmployee(ctx.Request.Context(), middleware.CurrentEmployee(ctx), invitationUUID, req.Description)
	}
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Invitation updated successfully",
	})
}

// DeleteInvitation withdraws or declines an invitation
// @Summary Delete invitation
// @Description Withdraw an invitation as the issuing admin, or decline it as the invited employee
// @Tags invitations
// @Produce json
// @Param id path string true "Invitation ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 400 {object} map[string]string "Invalid invitation ID format or tenancy mismatch"
// @Failure 403 {object} map[string]string "Invitation isn't addressed to the employee"
// @Failure 404 {object} map[string]string "Invitation not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /invitations/{id} [delete]
func DeleteInvitation(ctx *gin.Context) {
	invitationUUID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid invitation ID format",
			"message": err.Error(),
		})
		return
	}

	svc := invitationService()

	if ctx.GetString("principalRole") == authmodels.RoleAdmin {
		err = svc.DeleteAsAdmin(ctx.Request.Context(), middleware.CurrentAdmin(ctx), invitationUUID)
	} else {
		err = svc.DeleteAsEmployee(ctx.Request.Context(), middleware.CurrentEmployee(ctx), invitationUUID)
	}
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Invitation deleted successfully",
	})
}
