package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"inventra-backend/auth-service/handlers"
	"inventra-backend/auth-service/middleware"
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

	cfg := config.GetConfig()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(database.GetDB())

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(30 * time.Minute)

	generalConfig := middleware.RateLimitConfig{
		MaxRequests:   cfg.GetRateLimitMaxRequests(),
		TimeWindow:    time.Duration(cfg.GetRateLimitTimeWindowSeconds()) * time.Second,
		BlockDuration: time.Duration(cfg.GetRateLimitBlockDurationMinutes()) * time.Minute,
	}

	loginConfig := middleware.RateLimitConfig{
		MaxRequests:   cfg.GetLoginRateLimitMaxAttempts(),
		TimeWindow:    time.Duration(cfg.GetLoginRateLimitWindowSeconds()) * time.Second,
		BlockDuration: time.Duration(cfg.GetLoginRateLimitBlockMinutes()) * time.Minute,
	}

	registerConfig := middleware.RateLimitConfig{
		MaxRequests:   3,
		TimeWindow:    24 * time.Hour,
		BlockDuration: 48 * time.Hour,
	}

	router := gin.Default()

	// Auth endpoints
	router.POST("/api/auth/register", rateLimiter.RegistrationRateLimitMiddleware(registerConfig), authHandler.Register)
	router.POST("/api/auth/login", rateLimiter.LoginRateLimitMiddleware(loginConfig), authHandler.Login)
	router.POST("/api/auth/refresh", rateLimiter.RateLimitMiddleware(generalConfig), authHandler.Refresh)
	router.POST("/api/auth/logout", middleware.AuthMiddleware(), authHandler.Logout)
	router.POST("/api/auth/validate", rateLimiter.RateLimitMiddleware(generalConfig), authHandler.Validate)

	// Email verification endpoints
	router.GET("/api/auth/verify-email/:token", authHandler.VerifyEmail)
	router.POST("/api/auth/resend-verification", rateLimiter.VerificationRateLimitMiddleware(generalConfig), authHandler.ResendVerification)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "auth",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := strings.Split(cfg.AuthServiceURL, ":")[2]
	log.Printf("Auth Service starting on port %s...", port)
	router.Run(":" + port)
}
