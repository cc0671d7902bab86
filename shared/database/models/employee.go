package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is a member of at most one organization at a time.
type Employee struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Email          string     `json:"email" gorm:"uniqueIndex;not null"`
	Password       string     `json:"-" gorm:"not null"`
	FirstName      string     `json:"first_name" gorm:"size:100"`
	LastName       string     `json:"last_name" gorm:"size:100"`
	EmailVerified  bool       `json:"email_verified" gorm:"default:false"`
	OrganizationID *uuid.UUID `json:"organization_id" gorm:"type:uuid;index"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	Organization  *Organization  `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	AssignedItems []PropertyItem `json:"assigned_items,omitempty" gorm:"foreignKey:EmployeeID"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
