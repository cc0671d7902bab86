package main

import (
	"log"
	"net/http"
	"strings"

	"inventra-backend/notification-service/handlers"
	"inventra-backend/notification-service/services"
	"inventra-backend/shared/config"
	"inventra-backend/shared/database"

	"github.com/gin-gonic/gin"
)

// @title Notification Service API
// @version 1.0
// @description Emails & Real-time Notifications for Inventra
// @host localhost:8003
// @BasePath /api

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	router := gin.Default()

	// Initialize email service
	emailService := services.NewEmailService(config.GetConfig())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "notification-service",
			"status":  "healthy",
		})
	})

	// Email routes
	emailHandler := handlers.NewEmailHandler(emailService, config.GetConfig())
	emailRoutes := router.Group("/api/notifications/email")
	{
		emailRoutes.POST("/send", emailHandler.SendEmail)
		emailRoutes.POST("/verification", emailHandler.SendVerificationEmail)
		emailRoutes.POST("/suggestion-resolved", emailHandler.SendSuggestionResolvedEmail)
	}

	// Notification feed routes
	router.GET("/api/notifications", handlers.GetNotifications)
	router.GET("/api/notifications/:id", handlers.GetNotification)
	router.PUT("/api/notifications/:id/read", handlers.MarkAsRead)
	router.DELETE("/api/notifications/:id", handlers.DeleteNotification)

	// Domain event ingestion from other services
	router.POST("/api/notifications/events", handlers.PushEvent)

	// WebSocket endpoint
	router.GET("/ws/notifications/:principal_id", handlers.HandleWebSocket)

	// WebSocket message sending endpoint (for API Gateway)
	router.POST("/ws/send", handlers.SendWebSocketMessage)

	port := strings.Split(config.GetConfig().NotificationServiceURL, ":")[2]
	log.Printf("🔔 Notification Service starting on port %s...", port)
	log.Fatal(router.Run(":" + port))
}
