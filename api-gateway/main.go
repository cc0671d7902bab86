package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"inventra-backend/api-gateway/middleware"
	"inventra-backend/api-gateway/routes"
	"inventra-backend/shared/config"

	_ "inventra-backend/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Inventra API
// @version 1.0
// @description Complete API documentation for the Inventra microservices platform
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.inventra.com/support
// @contact.email support@inventra.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize global rate limiter
	rateLimiter := middleware.NewRateLimiter(5 * time.Minute) // Cleanup every 5 minutes

	// Global rate limit configuration from environment variables
	globalRateConfig := middleware.NewRateLimitConfig()

	router := gin.Default()

	// Add CORS middleware
	router.Use(cors.Default())

	// Global rate limiter middleware
	router.Use(rateLimiter.GlobalRateLimitMiddleware(globalRateConfig))

	// Health check endpoint
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "API Gateway is running", "Port": "8000"})
	})

	// Auth routes (identity checks happen inside the services)
	// Note: Auth Service has its own internal rate limiting
	router.Any("/api/auth/*path",
		routes.ProxyToService("auth"))

	// Protected routes reject invalid or revoked tokens before proxying.
	// Principal resolution still happens inside the services.
	protected := router.Group("", middleware.TokenPrecheckMiddleware())

	// Inventory service routes
	for _, resource := range []string{
		"organizations", "properties", "items",
		"suggestions", "scans", "invitations", "documents",
	} {
		protected.Any("/api/"+resource, routes.ProxyToService("inventory"))
		protected.Any("/api/"+resource+"/*path", routes.ProxyToService("inventory"))
	}

	// Notification service routes
	protected.Any("/api/notifications",
		routes.ProxyToService("notification"))
	protected.Any("/api/notifications/*path",
		routes.ProxyToService("notification"))

	// WebSocket routes
	router.GET("/ws/notifications/:principal_id",
		routes.ProxyToService("notification"))

	// Swagger documentation UI, development only
	router.GET("/swagger/*any", func(c *gin.Context) {
		if gin.Mode() == gin.DebugMode {
			ginSwagger.WrapHandler(swaggerFiles.Handler)(c)
		} else {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Swagger documentation not available in production",
			})
		}
	})

	// Server Start
	port := strings.Split(config.GetConfig().APIGatewayURL, ":")[2]
	log.Printf("API Gateway is running on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
