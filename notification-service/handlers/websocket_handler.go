package handlers

import (
	"net/http"

	"inventra-backend/notification-service/services"
	"inventra-backend/shared/database"
	"inventra-backend/shared/database/models/notification"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HandleWebSocket handles WebSocket connection requests
// @Summary WebSocket Connection
// @Description Establish WebSocket connection for real-time notifications
// @Tags websocket
// @Param principal_id path string true "Principal ID"
// @Router /ws/notifications/{principal_id} [get]
func HandleWebSocket(c *gin.Context) {
	wsManager := services.GetWebSocketManager()
	wsManager.HandleWebSocketConnection(c)
}

// SendWebSocketMessage sends message via WebSocket service (for API Gateway)
// @Summary Send WebSocket Message
// @Description Send real-time message to a specific principal via WebSocket
// @Tags websocket
// @Accept json
// @Produce json
// @Param payload body SendMessageRequest true "Message payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /ws/send [post]
func SendWebSocketMessage(c *gin.Context) {
	var request SendMessageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	wsManager := services.GetWebSocketManager()

	// Send message to specific principal
	if err := wsManager.SendToPrincipal(request.PrincipalID, request.Message); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "WebSocket message sent successfully",
		"principal_id": request.PrincipalID,
	})
}

// SendMessageRequest represents the request payload for sending WebSocket messages
type SendMessageRequest struct {
	PrincipalID string                         `json:"principal_id" binding:"required"`
	Message     *notification.WebSocketMessage `json:"message" binding:"required"`
}

// PushEventRequest represents a domain event from another service
type PushEventRequest struct {
	Type        string     `json:"type" binding:"required"`
	Level       string     `json:"level" binding:"required,oneof=info success warning error"`
	Title       string     `json:"title" binding:"required"`
	Message     string     `json:"message" binding:"required"`
	PrincipalID uuid.UUID  `json:"principal_id" binding:"required"`
	EntityID    *uuid.UUID `json:"entity_id"`
}

// PushEvent godoc
// @Summary Push domain event
// @Description Persist a notification and push it to the principal's live feed
// @Tags notifications
// @Accept json
// @Produce json
// @Param event body PushEventRequest true "Event payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/notifications/events [post]
func PushEvent(c *gin.Context) {
	var request PushEventRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	notif := notification.Notification{
		PrincipalID: request.PrincipalID,
		Type:        request.Type,
		Level:       request.Level,
		Title:       request.Title,
		Message:     request.Message,
		EntityID:    request.EntityID,
	}

	db := database.GetDB()
	if err := db.Create(&notif).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist notification"})
		return
	}

	// Live delivery is best effort, the principal may simply not be connected
	wsManager := services.GetWebSocketManager()
	message := &notification.WebSocketMessage{
		Type:        request.Type,
		Level:       request.Level,
		Title:       request.Title,
		Message:     request.Message,
		PrincipalID: request.PrincipalID,
		EntityID:    request.EntityID,
		Timestamp:   notification.GetCurrentTime(),
	}
	delivered := wsManager.SendToPrincipal(request.PrincipalID.String(), message) == nil

	c.JSON(http.StatusOK, gin.H{
		"message":   "Event accepted",
		"id":        notif.ID,
		"delivered": delivered,
	})
}
