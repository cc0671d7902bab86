package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlacklistedToken - tokens invalidated before their natural expiry
type BlacklistedToken struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PrincipalID   uuid.UUID `json:"principal_id" gorm:"type:uuid;not null"`
	Role          string    `json:"role" gorm:"size:20;not null"`
	TokenHash     string    `json:"token_hash" gorm:"size:255;not null;index"`
	ExpiresAt     time.Time `json:"expires_at" gorm:"not null"`
	BlacklistedAt time.Time `json:"blacklisted_at" gorm:"not null"`
	Reason        string    `json:"reason" gorm:"size:255"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (t *BlacklistedToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
