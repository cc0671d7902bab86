package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Property is the single inventory container of an organization.
type Property struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;uniqueIndex;not null"`
	Name           string    `json:"name" gorm:"size:200;not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Organization *Organization  `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	Items        []PropertyItem `json:"items,omitempty" gorm:"foreignKey:PropertyID"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
