package handlers

import (
	"net/http"

	"inventra-backend/shared/database"
	"inventra-backend/shared/database/models/notification"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary Get notifications
// @Description Get persisted notifications, optionally filtered by principal
// @Tags notifications
// @Accept json
// @Produce json
// @Param principal_id query string false "Principal ID"
// @Param unread query bool false "Only unread notifications"
// @Success 200 {array} notification.Notification
// @Failure 500 {object} map[string]interface{}
// @Router /api/notifications [get]
func GetNotifications(c *gin.Context) {
	var notifications []notification.Notification

	db := database.GetDB()
	query := db.Order("created_at DESC")

	if principalID := c.Query("principal_id"); principalID != "" {
		id, err := uuid.Parse(principalID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid principal ID"})
			return
		}
		query = query.Where("principal_id = ?", id)
	}

	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}

	if err := query.Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// @Summary Get notification by ID
// @Description Get a specific notification by ID
// @Tags notifications
// @Accept json
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} notification.Notification
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/notifications/{id} [get]
func GetNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	var notif notification.Notification
	db := database.GetDB()
	if err := db.First(&notif, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, notif)
}

// @Summary Mark notification as read
// @Description Mark a notification as read
// @Tags notifications
// @Accept json
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} notification.Notification
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/notifications/{id}/read [put]
func MarkAsRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	var notif notification.Notification
	db := database.GetDB()

	if err := db.First(&notif, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	notif.IsRead = true
	if err := db.Save(&notif).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}

	c.JSON(http.StatusOK, notif)
}

// @Summary Delete notification
// @Description Delete a notification by ID
// @Tags notifications
// @Accept json
// @Produce json
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/notifications/{id} [delete]
func DeleteNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	var notif notification.Notification
	db := database.GetDB()

	if err := db.First(&notif, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	if err := db.Delete(&notif).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
		return
	}

	c.Status(http.StatusNoContent)
}
