package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"inventra-backend/inventory-service/middleware"
	"inventra-backend/shared/database"
	"inventra-backend/shared/database/models"
	authmodels "inventra-backend/shared/database/models/auth"
	"inventra-backend/shared/database/models/document"
	"inventra-backend/shared/utils/apperrors"
	docUtils "inventra-backend/shared/utils/document"
	"inventra-backend/shared/utils/ownership"
	"inventra-backend/shared/utils/storage"
)

// UploadItemDocument attaches a file to a property item
// @Summary Upload item document
// @Description Upload a file (invoice, photo, warranty) attached to an item of the caller's property
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param item_id formData string true "Item ID the document belongs to"
// @Param file formData file true "Document file to upload"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Document uploaded successfully"
// @Failure 400 {object} map[string]string "Invalid request data or file fails validation"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /documents [post]
func UploadItemDocument(ctx *gin.Context) {
	db := database.DB.WithContext(ctx.Request.Context())

	itemID := ctx.PostForm("item_id")
	itemUUID, err := uuid.Parse(itemID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Valid item_id is required"})
		return
	}

	item, property, err := itemOfCallerProperty(ctx, db, itemUUID)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	if err := docUtils.ValidateUploadedFile(header); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	minioService, err := storage.NewMinIOService()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Storage service unavailable"})
		return
	}

	objectKey := fmt.Sprintf("properties/%s/items/%s/%s_%s", property.ID, item.ID, uuid.New(), header.Filename)

	contentType := header.Header.Get("Content-Type")
	if err := minioService.UploadObject(ctx.Request.Context(), objectKey, file, header.Size, contentType); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		return
	}

	uploaderID, uploaderRole := callerIdentity(ctx)

	doc := document.ItemDocument{
		ItemID:       item.ID,
		FileName:     header.Filename,
		ObjectKey:    objectKey,
		ContentType:  contentType,
		SizeBytes:    header.Size,
		UploadedByID: uploaderID,
		UploadedBy:   uploaderRole,
	}
	if err := db.Create(&doc).Error; err != nil {
		// Keep the bucket consistent with the index
		_ = minioService.DeleteObject(ctx.Request.Context(), objectKey)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create document record",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Document uploaded successfully",
		"data":    doc,
	})
}

// GetItemDocuments lists the documents attached to an item
// @Summary Get item documents
// @Description List the files attached to an item of the caller's property
// @Tags documents
// @Produce json
// @Param item_id path string true "Item ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Documents"
// @Failure 400 {object} map[string]string "Invalid item ID format or tenancy mismatch"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /documents/items/{item_id} [get]
func GetItemDocuments(ctx *gin.Context) {
	db := database.DB.WithContext(ctx.Request.Context())

	itemUUID, err := uuid.Parse(ctx.Param("item_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid item ID format",
			"message": err.Error(),
		})
		return
	}

	item, _, err := itemOfCallerProperty(ctx, db, itemUUID)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	var documents []document.ItemDocument
	if err := db.Where("item_id = ?", item.ID).
		Order("created_at DESC").
		Find(&documents).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve documents",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    documents,
	})
}

// DownloadItemDocument returns a presigned download link for a document
// @Summary Download item document
// @Description Get a short-lived presigned URL for a document of the caller's property
// @Tags documents
// @Produce json
// @Param id path string true "Document ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Presigned download URL"
// @Failure 400 {object} map[string]string "Invalid document ID format or tenancy mismatch"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /documents/{id}/download [get]
func DownloadItemDocument(ctx *gin.Context) {
	db := database.DB.WithContext(ctx.Request.Context())

	doc, err := documentOfCallerProperty(ctx, db)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	minioService, err := storage.NewMinIOService()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Storage service unavailable"})
		return
	}

	url, err := minioService.PresignedDownloadURL(ctx.Request.Context(), doc.ObjectKey, doc.FileName, 15*time.Minute)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to generate download URL",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"download_url": url,
			"file_name":    doc.FileName,
			"expires_in":   int((15 * time.Minute).Seconds()),
		},
	})
}

// DeleteItemDocument removes a document and its stored object
// @Summary Delete item document
// @Description Delete a document of the caller's property from both the index and the bucket
// @Tags documents
// @Produce json
// @Param id path string true "Document ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Success message"
// @Failure 400 {object} map[string]string "Invalid document ID format or tenancy mismatch"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /documents/{id} [delete]
func DeleteItemDocument(ctx *gin.Context) {
	db := database.DB.WithContext(ctx.Request.Context())

	doc, err := documentOfCallerProperty(ctx, db)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	minioService, err := storage.NewMinIOService()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Storage service unavailable"})
		return
	}

	if err := minioService.DeleteObject(ctx.Request.Context(), doc.ObjectKey); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to delete stored file",
			"message": err.Error(),
		})
		return
	}

	if err := database.DeleteOrFail(db, doc); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Document deleted successfully",
	})
}

// itemOfCallerProperty loads an item and asserts it belongs to the caller's property.
func itemOfCallerProperty(ctx *gin.Context, db *gorm.DB, itemID uuid.UUID) (*models.PropertyItem, *models.Property, error) {
	property, err := propertyOfCaller(ctx, db)
	if err != nil {
		return nil, nil, err
	}

	var item models.PropertyItem
	if err := db.First(&item, itemID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperrors.NewNotFound("item not found")
		}
		return nil, nil, err
	}
	if err := ownership.AssertItemInProperty(&item, property); err != nil {
		return nil, nil, err
	}

	return &item, property, nil
}

// documentOfCallerProperty loads a document by path param and walks the chain
// through its item.
func documentOfCallerProperty(ctx *gin.Context, db *gorm.DB) (*document.ItemDocument, error) {
	docUUID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid document ID format")
	}

	var doc document.ItemDocument
	if err := db.First(&doc, docUUID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NewNotFound("document not found")
		}
		return nil, err
	}

	if _, _, err := itemOfCallerProperty(ctx, db, doc.ItemID); err != nil {
		return nil, err
	}

	return &doc, nil
}

// callerIdentity returns the resolved principal's id and role.
func callerIdentity(ctx *gin.Context) (uuid.UUID, string) {
	if ctx.GetString("principalRole") == authmodels.RoleAdmin {
		return middleware.CurrentAdmin(ctx).ID, authmodels.RoleAdmin
	}
	return middleware.CurrentEmployee(ctx).ID, authmodels.RoleEmployee
}
