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
	"inventra-backend/shared/database/models"
	authmodels "inventra-backend/shared/database/models/auth"
	notification "inventra-backend/shared/database/models/notification"
	"inventra-backend/shared/utils/apperrors"
	"inventra-backend/shared/utils/query"
)

// CreateSuggestionRequest represents request body for creating a suggestion
type CreateSuggestionRequest struct {
	Name        string                   `json:"name" binding:"required"`
	Description string                   `json:"description"`
	Payload     models.SuggestionPayload `json:"payload" binding:"required"`
}

// UpdateSuggestionRequest represents request body for reworking a suggestion
type UpdateSuggestionRequest struct {
	Description string                   `json:"description"`
	Payload     models.SuggestionPayload `json:"payload" binding:"required"`
}

// DeclineSuggestionRequest represents request body for declining a suggestion
type DeclineSuggestionRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// CreateSuggestion submits a new change proposal
// @Summary Create suggestion
// @Description Submit a batched change proposal over the property's items
// @Tags suggestions
// @Accept json
// @Produce json
// @Param suggestion body CreateSuggestionRequest true "Suggestion information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created suggestion"
// @Failure 400 {object} map[string]string "Invalid request data or broken ownership chain"
// @Failure 500 {object} map[string]string "Server error"
// @Router /suggestions [post]
func CreateSuggestion(ctx *gin.Context) {
	employee := middleware.CurrentEmployee(ctx)

	var req CreateSuggestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	suggestion, err := services.NewSuggestionService(database.DB, services.NewItemService(database.DB)).
		Create(ctx.Request.Context(), employee, req.Name, req.Description, req.Payload)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Suggestion created successfully",
		"data":    suggestion,
	})
}

// GetSuggestions retrieves suggestions visible to the caller
// @Summary Get suggestions
// @Description Admins see all suggestions of the property; employees see their own
// @Tags suggestions
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param filters[status] query string false "Filter by status (PENDING, APPROVED, DECLINED)"
// @Param sort[field] query string false "Sort field (name, status, created_at)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Suggestions with pagination"
// @Failure 400 {object} map[string]string "Broken ownership chain"
// @Failure 500 {object} map[string]string "Server error"
// @Router /suggestions [get]
func GetSuggestions(ctx *gin.Context) {
	db := database.DB.WithContext(ctx.Request.Context())

	property, err := propertyOfCaller(ctx, db)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	params := query.ParseQueryParams(ctx)

	allowedFilters := map[string]string{
		"status":      "status",
		"employee_id": "employee_id",
	}

	allowedSortFields := map[string]string{
		"name":       "name",
		"status":     "status",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}

	searchFields := []string{"name", "description"}

	dbQuery := db.Model(&models.PropertySuggestion{}).Where("property_id = ?", property.ID)

	// Employees only see their own proposals
	if ctx.GetString("principalRole") == authmodels.RoleEmployee {
		dbQuery = dbQuery.Where("employee_id = ?", middleware.CurrentEmployee(ctx).ID)
	}

	dbQuery = query.ApplyFilters(dbQuery, params.Filters, allowedFilters)
	dbQuery = query.ApplySearch(dbQuery, params.Search, searchFields)
	dbQuery = query.ApplySort(dbQuery, params.Sort, allowedSortFields)

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to count suggestions",
			"message": err.Error(),
		})
		return
	}

	dbQuery = query.ApplyPagination(dbQuery, params.Page, params.Limit)

	var suggestions []models.PropertySuggestion
	if err := dbQuery.Preload("Employee").Find(&suggestions).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve suggestions",
			"message": err.Error(),
		})
		return
	}

	pagination := query.BuildPaginationResponse(params.Page, params.Limit, total)

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      suggestions,
			"pagination": pagination,
		},
	})
}

// UpdateSuggestion reworks a suggestion's payload and description
// @Summary Update suggestion
// @Description Rework an own suggestion; a declined suggestion returns to PENDING
// @Tags suggestions
// @Accept json
// @Produce json
// @Param id path string true "Suggestion ID" format(uuid)
// @Param suggestion body UpdateSuggestionRequest true "Updated suggestion information"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 400 {object} map[string]string "Invalid request data or suggestion is approved"
// @Failure 403 {object} map[string]string "Suggestion doesn't belong to the employee"
// @Failure 404 {object} map[string]string "Suggestion not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /suggestions/{id} [put]
func UpdateSuggestion(ctx *gin.Context) {
	employee := middleware.CurrentEmployee(ctx)

	suggestionUUID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid suggestion ID format",
			"message": err.Error(),
		})
		return
	}

	var req UpdateSuggestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	svc := services.NewSuggestionService(database.DB, services.NewItemService(database.DB))
	if err := svc.Update(ctx.Request.Context(), employee, suggestionUUID, req.Description, req.Payload); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Suggestion updated successfully",
	})
}

// DeleteSuggestion removes a suggestion
// @Summary Delete suggestion
// @Description Delete a suggestion as its author or as the property's admin; approved suggestions can't be deleted
// @Tags suggestions
// @Produce json
// @Param id path string true "Suggestion ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 400 {object} map[string]string "Invalid suggestion ID format or tenancy mismatch"
// @Failure 403 {object} map[string]string "Suggestion is already approved by the admin"
// @Failure 404 {object} map[string]string "Suggestion not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /suggestions/{id} [delete]
func DeleteSuggestion(ctx *gin.Context) {
	suggestionUUID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid suggestion ID format",
			"message": err.Error(),
		})
		return
	}

	svc := services.NewSuggestionService(database.DB, services.NewItemService(database.DB))

	if ctx.GetString("principalRole") == authmodels.RoleAdmin {
		err = svc.DeleteAsAdmin(ctx.Request.Context(), middleware.CurrentAdmin(ctx), suggestionUUID)
	} else {
		err = svc.DeleteAsEmployee(ctx.Request.Context(), middleware.CurrentEmployee(ctx), suggestionUUID)
	}
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Suggestion deleted successfully",
	})
}

// AcceptSuggestion approves a suggestion and applies its payload
// @Summary Accept suggestion
// @Description Approve a pending suggestion; its change set is applied to the inventory atomically
// @Tags suggestions
// @Produce json
// @Param id path string true "Suggestion ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Approved suggestion"
// @Failure 400 {object} map[string]string "Suggestion is already closed or the payload fails validation"
// @Failure 404 {object} map[string]string "Suggestion not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /suggestions/{id}/accept [post]
func AcceptSuggestion(ctx *gin.Context) {
	admin := middleware.CurrentAdmin(ctx)

	suggestionUUID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid suggestion ID format",
			"message": err.Error(),
		})
		return
	}

	svc := services.NewSuggestionService(database.DB, services.NewItemService(database.DB))
	suggestion, err := svc.Accept(ctx.Request.Context(), admin, suggestionUUID)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	notifySuggestionResolved(suggestion, "")

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Suggestion accepted successfully",
		"data":    suggestion,
	})
}

// DeclineSuggestion declines a suggestion with feedback
// @Summary Decline suggestion
// @Description Decline a pending suggestion, storing the admin's feedback for the author
// @Tags suggestions
// @Accept json
// @Produce json
// @Param id path string true "Suggestion ID" format(uuid)
// @Param feedback body DeclineSuggestionRequest true "Feedback for the author"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Declined suggestion"
// @Failure 400 {object} map[string]string "Invalid request data or suggestion is already closed"
// @Failure 404 {object} map[string]string "Suggestion not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /suggestions/{id}/decline [post]
func DeclineSuggestion(ctx *gin.Context) {
	admin := middleware.CurrentAdmin(ctx)

	suggestionUUID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid suggestion ID format",
			"message": err.Error(),
		})
		return
	}

	var req DeclineSuggestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	svc := services.NewSuggestionService(database.DB, services.NewItemService(database.DB))
	suggestion, err := svc.Decline(ctx.Request.Context(), admin, suggestionUUID, req.Feedback)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	notifySuggestionResolved(suggestion, req.Feedback)

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Suggestion declined successfully",
		"data":    suggestion,
	})
}

// notifySuggestionResolved pushes the resolution to the author over email and
// the websocket feed. Delivery failures are logged, never surfaced; the
// resolution itself has already committed.
func notifySuggestionResolved(suggestion *models.PropertySuggestion, feedback string) {
	var author models.Employee
	if err := database.DB.First(&author, suggestion.EmployeeID).Error; err != nil {
		log.Printf("❌ Failed to load suggestion author for notification: %v", err)
		return
	}

	client := clients.NewNotificationClient()

	eventType := notification.EventSuggestionApproved
	level := notification.NotificationLevelSuccess
	message := fmt.Sprintf("Your suggestion %q was approved", suggestion.Name)
	if suggestion.Status == models.SuggestionStatusDeclined {
		eventType = notification.EventSuggestionDeclined
		level = notification.NotificationLevelWarning
		message = fmt.Sprintf("Your suggestion %q was declined", suggestion.Name)
	}

	if err := client.SendSuggestionResolvedEmail(author.Email, author.FirstName, suggestion.Name, suggestion.Status, feedback); err != nil {
		log.Printf("❌ Failed to send suggestion resolution email: %v", err)
	}

	if err := client.PushEvent(clients.PushEventRequest{
		Type:        eventType,
		Level:       level,
		Title:       "Suggestion resolved",
		Message:     message,
		PrincipalID: author.ID,
		EntityID:    &suggestion.ID,
	}); err != nil {
		log.Printf("❌ Failed to push suggestion resolution event: %v", err)
	}
}
