package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"inventra-backend/inventory-service/middleware"
	"inventra-backend/inventory-service/services"
	"inventra-backend/shared/database"
	"inventra-backend/shared/database/models"
	"inventra-backend/shared/utils/apperrors"
	"inventra-backend/shared/utils/ownership"
	"inventra-backend/shared/utils/query"
)

// CreateItemsRequest represents request body for a batch item create
type CreateItemsRequest struct {
	Items []models.ItemCreateSpec `json:"items" binding:"required,min=1,dive"`
}

// UpdateItemsRequest represents request body for a batch item update
type UpdateItemsRequest struct {
	Items []models.ItemUpdateSpec `json:"items" binding:"required,min=1,dive"`
}

// DeleteItemsRequest represents request body for a batch item delete
type DeleteItemsRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// CreateItems creates a batch of items in the admin's property
// @Summary Create items
// @Description Create one or more items in the property, all-or-nothing
// @Tags items
// @Accept json
// @Produce json
// @Param items body CreateItemsRequest true "Items to create"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created items"
// @Failure 400 {object} map[string]string "Invalid request data or broken ownership chain"
// @Failure 404 {object} map[string]string "Assignee not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /items [post]
func CreateItems(ctx *gin.Context) {
	admin := middleware.CurrentAdmin(ctx)

	var req CreateItemsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	db := database.DB

	org, property, err := ownership.PropertyOfAdmin(db, admin)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	items, err := services.NewItemService(db).CreateItems(ctx.Request.Context(), property.ID, org.ID, req.Items)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Items created successfully",
		"data":    items,
	})
}

// UpdateItems replaces the mutable fields of a batch of items
// @Summary Update items
// @Description Update one or more items in the property, all-or-nothing
// @Tags items
// @Accept json
// @Produce json
// @Param items body UpdateItemsRequest true "Items to update"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 400 {object} map[string]string "Invalid request data or broken ownership chain"
// @Failure 404 {object} map[string]string "Item or assignee not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /items [put]
func UpdateItems(ctx *gin.Context) {
	admin := middleware.CurrentAdmin(ctx)

	var req UpdateItemsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	db := database.DB

	org, property, err := ownership.PropertyOfAdmin(db, admin)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	if err := services.NewItemService(db).UpdateItems(ctx.Request.Context(), property.ID, org.ID, req.Items); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Items updated successfully",
	})
}

// DeleteItems removes a batch of items from the admin's property
// @Summary Delete items
// @Description Delete one or more items from the property, all-or-nothing
// @Tags items
// @Accept json
// @Produce json
// @Param items body DeleteItemsRequest true "Item IDs to delete"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 400 {object} map[string]string "Invalid request data or broken ownership chain"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /items [delete]
func DeleteItems(ctx *gin.Context) {
	admin := middleware.CurrentAdmin(ctx)

	var req DeleteItemsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	db := database.DB

	_, property, err := ownership.PropertyOfAdmin(db, admin)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	if err := services.NewItemService(db).DeleteItems(ctx.Request.Context(), property.ID, req.IDs); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Items deleted successfully",
	})
}

// GetItems retrieves the property's items with pagination and filtering
// @Summary Get items
// @Description Get the property's items with pagination, filtering, sorting and search. Employees see only their assigned items.
// @Tags items
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param search query string false "Search term across name and identifying numbers"
// @Param filters[employee_id] query string false "Filter by assigned employee ID"
// @Param filters[location] query string false "Filter by location"
// @Param filters[room] query string false "Filter by room"
// @Param sort[field] query string false "Sort field (name, price, purchase_date, created_at)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Items with pagination"
// @Failure 400 {object} map[string]string "Broken ownership chain"
// @Failure 500 {object} map[string]string "Server error"
// @Router /items [get]
func GetItems(ctx *gin.Context) {
	db := database.DB.WithContext(ctx.Request.Context())

	property, err := propertyOfCaller(ctx, db)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	params := query.ParseQueryParams(ctx)

	allowedFilters := map[string]string{
		"employee_id": "employee_id",
		"location":    "location",
		"room":        "room",
	}

	allowedSortFields := map[string]string{
		"name":          "name",
		"price":         "price",
		"purchase_date": "purchase_date",
		"created_at":    "created_at",
		"updated_at":    "updated_at",
	}

	searchFields := []string{"name", "inventory_number", "registration_number", "document_number", "serial_number"}

	dbQuery := db.Model(&models.PropertyItem{}).Where("property_id = ?", property.ID)

	// Employees only see their own assignment set
	if employee, ok := ctx.Get("currentEmployee"); ok {
		dbQuery = dbQuery.Where("employee_id = ?", employee.(*models.Employee).ID)
	}

	dbQuery = query.ApplyFilters(dbQuery, params.Filters, allowedFilters)
	dbQuery = query.ApplySearch(dbQuery, params.Search, searchFields)
	dbQuery = query.ApplySort(dbQuery, params.Sort, allowedSortFields)

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to count items",
			"message": err.Error(),
		})
		return
	}

	dbQuery = query.ApplyPagination(dbQuery, params.Page, params.Limit)

	var items []models.PropertyItem
	if err := dbQuery.Preload("Employee").Find(&items).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve items",
			"message": err.Error(),
		})
		return
	}

	pagination := query.BuildPaginationResponse(params.Page, params.Limit, total)

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      items,
			"pagination": pagination,
		},
	})
}

// GetItem retrieves a single item by ID
// @Summary Get item by ID
// @Description Get a single item that belongs to the caller's property
// @Tags items
// @Produce json
// @Param id path string true "Item ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Item data"
// @Failure 400 {object} map[string]string "Invalid item ID format or tenancy mismatch"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /items/{id} [get]
func GetItem(ctx *gin.Context) {
	itemUUID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid item ID format",
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

	var item models.PropertyItem
	if err := db.Preload("Employee").First(&item, itemUUID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"error":   "Item not found",
				"message": "Item with the given ID does not exist",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve item",
			"message": err.Error(),
		})
		return
	}

	if err := ownership.AssertItemInProperty(&item, property); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}
