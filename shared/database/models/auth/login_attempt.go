package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoginAttempt - login attempts and rate limiting state
type LoginAttempt struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string     `json:"email" gorm:"size:255;not null;index"`
	IPAddress    string     `json:"ip_address" gorm:"size:50;not null"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`
	Successful   bool       `json:"successful" gorm:"default:false"`
	FailureType  string     `json:"failure_type" gorm:"size:100"` // wrong_password, principal_not_found, email_not_verified
	Attempts     int        `json:"attempts" gorm:"default:1"`
	LastAttempt  time.Time  `json:"last_attempt" gorm:"not null"`
	BlockedUntil *time.Time `json:"blocked_until"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (a *LoginAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
