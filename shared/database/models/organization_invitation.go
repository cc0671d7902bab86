package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrganizationInvitation is an admin-issued membership offer to an employee.
// The composite unique index rejects duplicate invitations at the store level.
type OrganizationInvitation struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;uniqueIndex:idx_invitation_org_employee,priority:1"`
	EmployeeID     uuid.UUID `json:"employee_id" gorm:"type:uuid;not null;uniqueIndex:idx_invitation_org_employee,priority:2"`
	Description    string    `json:"description" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	Employee     *Employee     `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
}

func (i *OrganizationInvitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
