package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret            string
	JWTExpireHours       string
	JWTRefreshExpireDays string

	// API Gateway URL
	APIGatewayURL string

	// Seed Admin
	SeedAdminEmail    string
	SeedAdminPassword string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       string

	// Email Configuration
	EmailFrom     string
	EmailFromName string
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPUseTLS    bool

	// Rate Limiting
	RateLimitMaxRequests          string
	RateLimitTimeWindowSeconds    string
	RateLimitBlockDurationMinutes string

	// Login Rate Limiting
	LoginRateLimitMaxAttempts   string
	LoginRateLimitWindowSeconds string
	LoginRateLimitBlockMinutes  string

	// Frontend URL
	FrontendURL string

	// Service URLs (Dynamic based on environment)
	AuthServiceURL         string
	InventoryServiceURL    string
	NotificationServiceURL string

	// Invitations
	MaxOpenInvitations string

	// MinIO Configuration
	MinIOServerURL    string
	MinIORootUser     string
	MinIORootPassword string
	MinIOUseSSL       bool
	MinIOBucketName   string

	// Item Document Configuration
	ItemDocumentMaxFileSize  string
	ItemDocumentAllowedTypes string
}

var cfg *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("✅ Environment loaded from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg = &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "inventra"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret:            getEnv("JWT_SECRET", "your-secret-key-change-this"),
		JWTExpireHours:       getEnv("JWT_EXPIRE_HOURS", "3"),
		JWTRefreshExpireDays: getEnv("JWT_REFRESH_EXPIRE_DAYS", "1"),

		// API Gateway URL
		APIGatewayURL: getEnv("API_GATEWAY_URL", "http://localhost:8000"),

		// Seed Admin
		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@inventra.com"),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", "admin123"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		// Email Configuration
		EmailFrom:     getEnv("EMAIL_FROM", "noreply@inventra.com"),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "Inventra"),
		SMTPHost:      getEnv("SMTP_HOST", "smtp.example.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:    getEnvAsBool("SMTP_USE_TLS", false),

		// Rate Limiting - Global
		RateLimitMaxRequests:          getEnv("RATE_LIMIT_MAX_REQUESTS", "100"),
		RateLimitTimeWindowSeconds:    getEnv("RATE_LIMIT_TIME_WINDOW_SECONDS", "60"),
		RateLimitBlockDurationMinutes: getEnv("RATE_LIMIT_BLOCK_DURATION_MINUTES", "15"),

		// Login Rate Limiting
		LoginRateLimitMaxAttempts:   getEnv("LOGIN_RATE_LIMIT_MAX_ATTEMPTS", "5"),
		LoginRateLimitWindowSeconds: getEnv("LOGIN_RATE_LIMIT_WINDOW_SECONDS", "300"),
		LoginRateLimitBlockMinutes:  getEnv("LOGIN_RATE_LIMIT_BLOCK_MINUTES", "30"),

		// Frontend URL
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Service URLs - Environment-based configuration
		AuthServiceURL:         getEnv("AUTH_SERVICE_URL", "http://localhost:8001"),
		InventoryServiceURL:    getEnv("INVENTORY_SERVICE_URL", "http://localhost:8002"),
		NotificationServiceURL: getEnv("NOTIFICATION_SERVICE_URL", "http://localhost:8003"),

		// Invitations
		MaxOpenInvitations: getEnv("MAX_OPEN_INVITATIONS", "50"),

		// MinIO Configuration
		MinIOServerURL:    getEnv("MINIO_SERVER_URL", "http://localhost:9000"),
		MinIORootUser:     getEnv("MINIO_ROOT_USER", "minioadmin"),
		MinIORootPassword: getEnv("MINIO_ROOT_PASSWORD", "minioadmin"),
		MinIOUseSSL:       getEnvAsBool("MINIO_USE_SSL", false),
		MinIOBucketName:   getEnv("MINIO_BUCKET_NAME", "inventra-documents"),

		// Item Document Configuration
		ItemDocumentMaxFileSize:  getEnv("ITEM_DOCUMENT_MAX_FILE_SIZE", "50MB"),
		ItemDocumentAllowedTypes: getEnv("ITEM_DOCUMENT_ALLOWED_TYPES", ".pdf,.doc,.docx,.txt,.jpg,.jpeg,.png"),
	}

	log.Println("✅ Configuration loaded successfully")
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	if cfg == nil {
		LoadConfig()
	}
	return cfg
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// GetRateLimitMaxRequests returns the rate limit max requests as integer
func (c *Config) GetRateLimitMaxRequests() int {
	if value, err := strconv.Atoi(c.RateLimitMaxRequests); err == nil {
		return value
	}
	return 100
}

// GetRateLimitTimeWindowSeconds returns the rate limit time window as integer
func (c *Config) GetRateLimitTimeWindowSeconds() int {
	if value, err := strconv.Atoi(c.RateLimitTimeWindowSeconds); err == nil {
		return value
	}
	return 60
}

// GetRateLimitBlockDurationMinutes returns the rate limit block duration as integer
func (c *Config) GetRateLimitBlockDurationMinutes() int {
	if value, err := strconv.Atoi(c.RateLimitBlockDurationMinutes); err == nil {
		return value
	}
	return 15
}

// GetLoginRateLimitMaxAttempts returns the login rate limit max attempts as integer
func (c *Config) GetLoginRateLimitMaxAttempts() int {
	if value, err := strconv.Atoi(c.LoginRateLimitMaxAttempts); err == nil {
		return value
	}
	return 5
}

// GetLoginRateLimitWindowSeconds returns the login rate limit window as integer
func (c *Config) GetLoginRateLimitWindowSeconds() int {
	if value, err := strconv.Atoi(c.LoginRateLimitWindowSeconds); err == nil {
		return value
	}
	return 300
}

// GetLoginRateLimitBlockMinutes returns the login rate limit block duration as integer
func (c *Config) GetLoginRateLimitBlockMinutes() int {
	if value, err := strconv.Atoi(c.LoginRateLimitBlockMinutes); err == nil {
		return value
	}
	return 30
}

// GetMaxOpenInvitations returns the per-organization open invitation cap as integer
func (c *Config) GetMaxOpenInvitations() int {
	if value, err := strconv.Atoi(c.MaxOpenInvitations); err == nil {
		return value
	}
	return 50
}
