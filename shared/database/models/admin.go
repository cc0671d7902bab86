package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Admin owns at most one organization; the unique index on OrganizationID
// backstops the one-admin-per-organization rule.
type Admin struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Email          string     `json:"email" gorm:"uniqueIndex;not null"`
	Password       string     `json:"-" gorm:"not null"`
	FirstName      string     `json:"first_name" gorm:"size:100"`
	LastName       string     `json:"last_name" gorm:"size:100"`
	EmailVerified  bool       `json:"email_verified" gorm:"default:false"`
	OrganizationID *uuid.UUID `json:"organization_id" gorm:"type:uuid;uniqueIndex"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
}

func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
