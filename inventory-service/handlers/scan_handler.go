package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inventra-backend/inventory-service/middleware"
	"inventra-backend/inventory-service/services"
	"inventra-backend/shared/clients"
	"inventra-backend/shared/database"
	notification "inventra-backend/shared/database/models/notification"
	"inventra-backend/shared/utils/apperrors"
)

// ScanItemRequest represents request body for recording a scanned item
type ScanItemRequest struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`
}

// CreateScan opens a stocktaking round for the admin's property
// @Summary Create scan
// @Description Open a new scan; only one scan may be in progress per property
// @Tags scans
// @Produce json
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created scan"
// @Failure 400 {object} map[string]string "Broken ownership chain or an active scan already exists"
// @Failure 500 {object} map[string]string "Server error"
// @Router /scans [post]
func CreateScan(ctx *gin.Context) {
	admin := middleware.CurrentAdmin(ctx)

	scan, err := services.NewScanService(database.DB).CreateScan(ctx.Request.Context(), admin)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Scan created successfully",
		"data":    scan,
	})
}

// ScanItem records one of the caller's assigned items as scanned
// @Summary Scan item
// @Description Mark an assigned item as scanned in the property's active scan; re-scanning is a no-op
// @Tags scans
// @Accept json
// @Produce json
// @Param item body ScanItemRequest true "Item to record"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 400 {object} map[string]string "No active scan or item isn't part of the property"
// @Failure 403 {object} map[string]string "Item isn't assigned to the employee"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /scans/items [post]
func ScanItem(ctx *gin.Context) {
	employee := middleware.CurrentEmployee(ctx)

	var req ScanItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	if err := services.NewScanService(database.DB).ScanItem(ctx.Request.Context(), employee, req.ItemID); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item scanned successfully",
	})
}

// CompleteScan closes the property's active scan
// @Summary Complete scan
// @Description Transition the active scan to COMPLETED, stamping its completion time
// @Tags scans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Completed scan"
// @Failure 400 {object} map[string]string "No active scan for the property"
// @Failure 500 {object} map[string]string "Server error"
// @Router /scans/complete [post]
func CompleteScan(ctx *gin.Context) {
	admin := middleware.CurrentAdmin(ctx)

	scan, err := services.NewScanService(database.DB).CompleteScan(ctx.Request.Context(), admin)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	// Best-effort push; the completion itself has already committed
	if err := clients.NewNotificationClient().PushEvent(clients.PushEventRequest{
		Type:        notification.EventScanCompleted,
		Level:       notification.NotificationLevelInfo,
		Title:       "Scan completed",
		Message:     fmt.Sprintf("Stocktaking scan %s was completed", scan.ID),
		PrincipalID: admin.ID,
		EntityID:    &scan.ID,
	}); err != nil {
		log.Printf("❌ Failed to push scan completion event: %v", err)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Scan completed successfully",
		"data":    scan,
	})
}

// GetActiveScan retrieves the active scan with its progress
// @Summary Get active scan
// @Description Get the property's IN_PROGRESS scan and its scanned counts
// @Tags scans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Scan progress"
// @Failure 400 {object} map[string]string "No active scan for the property"
// @Failure 500 {object} map[string]string "Server error"
// @Router /scans/active [get]
func GetActiveScan(ctx *gin.Context) {
	db := database.DB.WithContext(ctx.Request.Context())

	property, err := propertyOfCaller(ctx, db)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	progress, err := services.NewScanService(database.DB).ActiveScanProgress(ctx.Request.Context(), property.ID)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    progress,
	})
}

// GetScans lists the property's scans
// @Summary Get scans
// @Description List the property's scans, newest first
// @Tags scans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Scans"
// @Failure 400 {object} map[string]string "Broken ownership chain"
// @Failure 500 {object} map[string]string "Server error"
// @Router /scans [get]
func GetScans(ctx *gin.Context) {
	db := database.DB.WithContext(ctx.Request.Context())

	property, err := propertyOfCaller(ctx, db)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	scans, err := services.NewScanService(database.DB).ListScans(ctx.Request.Context(), property.ID)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    scans,
	})
}

// GetScan retrieves a single scan with its progress
// @Summary Get scan by ID
// @Description Get any scan of the property, active or completed, with its scanned counts
// @Tags scans
// @Produce json
// @Param id path string true "Scan ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Scan progress"
// @Failure 400 {object} map[string]string "Invalid scan ID format or tenancy mismatch"
// @Failure 404 {object} map[string]string "Scan not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /scans/{id} [get]
func GetScan(ctx *gin.Context) {
	scanUUID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid scan ID format",
			"message": err.Error(),
		})
		return
	}

	db := database.DB.WithContext(ctx.Request.Context())

	property, err := propertyOfCaller(ctx, db)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	progress, err := services.NewScanService(database.DB).ScanProgressByID(ctx.Request.Context(), property.ID, scanUUID)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    progress,
	})
}
