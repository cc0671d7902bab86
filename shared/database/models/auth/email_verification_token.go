package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Principal roles carried by tokens and credentials
const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

// EmailVerificationToken - email verification tokens for both principal kinds
type EmailVerificationToken struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	PrincipalID uuid.UUID  `json:"principal_id" gorm:"type:uuid;not null;index"`
	Role        string     `json:"role" gorm:"size:20;not null"`
	Token       string     `json:"token" gorm:"size:255;uniqueIndex;not null"`
	Email       string     `json:"email" gorm:"size:255;not null"`
	ExpiresAt   time.Time  `json:"expires_at" gorm:"not null"`
	Verified    bool       `json:"verified" gorm:"default:false"`
	VerifiedAt  *time.Time `json:"verified_at"`
	IPAddress   string     `json:"ip_address" gorm:"size:50"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *EmailVerificationToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
