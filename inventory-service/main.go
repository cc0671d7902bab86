package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"inventra-backend/inventory-service/handlers"
	"inventra-backend/inventory-service/middleware"
	"inventra-backend/shared/config"
	"inventra-backend/shared/database"

	_ "inventra-backend/docs"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	router := gin.Default()

	api := router.Group("/api", middleware.IdentityMiddleware())

	// Organization routes (admin only)
	admin := api.Group("", middleware.RequireAdmin())
	admin.POST("/organizations", handlers.CreateOrganization)
	admin.GET("/organizations/me", handlers.GetMyOrganization)
	admin.PUT("/organizations", handlers.UpdateOrganization)
	admin.DELETE("/organizations", handlers.DeleteOrganization)
	admin.GET("/organizations/employees", handlers.GetOrganizationEmployees)

	// Property routes
	admin.POST("/properties", handlers.CreateProperty)
	admin.PUT("/properties", handlers.UpdateProperty)
	api.GET("/properties/me", handlers.GetProperty)

	// Item routes
	admin.POST("/items", handlers.CreateItems)
	admin.PUT("/items", handlers.UpdateItems)
	admin.DELETE("/items", handlers.DeleteItems)
	api.GET("/items", handlers.GetItems)
	api.GET("/items/:id", handlers.GetItem)

	// Suggestion routes
	employee := api.Group("", middleware.RequireEmployee())
	employee.POST("/suggestions", handlers.CreateSuggestion)
	employee.PUT("/suggestions/:id", handlers.UpdateSuggestion)
	api.GET("/suggestions", handlers.GetSuggestions)
	api.DELETE("/suggestions/:id", handlers.DeleteSuggestion)
	admin.POST("/suggestions/:id/accept", handlers.AcceptSuggestion)
	admin.POST("/suggestions/:id/decline", handlers.DeclineSuggestion)

	// Scan routes
	admin.POST("/scans", handlers.CreateScan)
	admin.POST("/scans/complete", handlers.CompleteScan)
	employee.POST("/scans/items", handlers.ScanItem)
	api.GET("/scans", handlers.GetScans)
	api.GET("/scans/active", handlers.GetActiveScan)
	api.GET("/scans/:id", handlers.GetScan)

	// Invitation routes
	admin.POST("/invitations", handlers.CreateInvitation)
	api.GET("/invitations", handlers.GetInvitations)
	employee.POST("/invitations/:id/accept", handlers.AcceptInvitation)
	api.PUT("/invitations/:id", handlers.UpdateInvitation)
	api.DELETE("/invitations/:id", handlers.DeleteInvitation)

	// Document routes
	api.POST("/documents", handlers.UploadItemDocument)
	api.GET("/documents/items/:item_id", handlers.GetItemDocuments)
	api.GET("/documents/:id/download", handlers.DownloadItemDocument)
	api.DELETE("/documents/:id", handlers.DeleteItemDocument)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "inventory",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Parse port from config URL
	port := strings.Split(config.GetConfig().InventoryServiceURL, ":")[2]
	log.Printf("Inventory Service starting on port %s...", port)
	router.Run(":" + port)
}
