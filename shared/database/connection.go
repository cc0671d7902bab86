package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inventra-backend/shared/config"
	"inventra-backend/shared/database/models"
	"inventra-backend/shared/database/models/auth"
	"inventra-backend/shared/database/models/document"
	"inventra-backend/shared/database/models/notification"
)

var DB *gorm.DB

// getLogLevel returns appropriate log level based on environment
func getLogLevel(cfg *config.Config) logger.LogLevel {
	if cfg.DBHost == "localhost" || cfg.DBHost == "127.0.0.1" {
		return logger.Warn
	}
	return logger.Error
}

// InitDatabase initializes the database connection and runs migrations
func InitDatabase() error {
	cfg := config.GetConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
	)

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(getLogLevel(cfg)),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established successfully")

	// Run migrations
	if err := runMigrations(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// MigrationModels lists every persisted aggregate, in dependency order.
func MigrationModels() []interface{} {
	return []interface{}{
		&models.Organization{},
		&models.Admin{},
		&models.Employee{},
		&models.Property{},
		&models.PropertyItem{},
		&models.PropertyScan{},
		&models.PropertyScanItem{},
		&models.PropertySuggestion{},
		&models.OrganizationInvitation{},
		&auth.EmailVerificationToken{},
		&auth.BlacklistedToken{},
		&auth.LoginAttempt{},
		&document.ItemDocument{},
		&notification.Notification{},
	}
}

// runMigrations creates any missing tables
func runMigrations() error {
	log.Println("🔄 Checking database schema...")

	migrator := DB.Migrator()
	created := 0

	for _, model := range MigrationModels() {
		if migrator.HasTable(model) {
			continue
		}

		log.Printf("📦 Creating table for %T", model)
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
		created++
	}

	if created > 0 {
		log.Printf("✅ Database migrations completed (%d tables created)", created)
	} else {
		log.Println("✅ Database schema is up to date")
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// CloseDatabase closes the database connection
func CloseDatabase() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
