package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Suggestion statuses
const (
	SuggestionStatusPending  = "PENDING"
	SuggestionStatusApproved = "APPROVED"
	SuggestionStatusDeclined = "DECLINED"
)

// ItemCreateSpec describes a property item to be created.
type ItemCreateSpec struct {
	Name               string     `json:"name" binding:"required"`
	Price              float64    `json:"price"`
	InventoryNumber    string     `json:"inventory_number" binding:"required"`
	RegistrationNumber string     `json:"registration_number" binding:"required"`
	DocumentNumber     string     `json:"document_number" binding:"required"`
	SerialNumber       *string    `json:"serial_number"`
	PurchaseDate       time.Time  `json:"purchase_date"`
	SaleDate           *time.Time `json:"sale_date"`
	Location           string     `json:"location"`
	Room               string     `json:"room"`
	EmployeeID         *uuid.UUID `json:"employee_id"`
}

// ItemUpdateSpec describes a full replacement of an existing item's mutable fields.
type ItemUpdateSpec struct {
	ID                 uuid.UUID  `json:"id" binding:"required"`
	Name               string     `json:"name" binding:"required"`
	Price              float64    `json:"price"`
	InventoryNumber    string     `json:"inventory_number" binding:"required"`
	RegistrationNumber string     `json:"registration_number" binding:"required"`
	DocumentNumber     string     `json:"document_number" binding:"required"`
	SerialNumber       *string    `json:"serial_number"`
	PurchaseDate       time.Time  `json:"purchase_date"`
	SaleDate           *time.Time `json:"sale_date"`
	Location           string     `json:"location"`
	Room               string     `json:"room"`
	EmployeeID         *uuid.UUID `json:"employee_id"`
}

// SuggestionPayload is the batched change set an employee proposes over a
// property's items. It is stored as a single discriminated structure and is
// only interpreted when an admin accepts the suggestion.
type SuggestionPayload struct {
	Create []ItemCreateSpec `json:"create"`
	Update []ItemUpdateSpec `json:"update"`
	Delete []uuid.UUID      `json:"delete"`
}

// IsEmpty reports whether the payload proposes no changes at all.
func (p SuggestionPayload) IsEmpty() bool {
	return len(p.Create) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

// Value implements driver.Valuer so the payload round-trips through a single column.
func (p SuggestionPayload) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (p *SuggestionPayload) Scan(value interface{}) error {
	if value == nil {
		*p = SuggestionPayload{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("unsupported type for suggestion payload")
	}
}

// PropertySuggestion is an employee-authored, admin-gated change proposal.
type PropertySuggestion struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	PropertyID  uuid.UUID         `json:"property_id" gorm:"type:uuid;not null;index"`
	EmployeeID  uuid.UUID         `json:"employee_id" gorm:"type:uuid;not null;index"`
	Name        string            `json:"name" gorm:"size:200;not null"`
	Description string            `json:"description" gorm:"type:text"`
	Status      string            `json:"status" gorm:"size:20;not null;default:'PENDING'"`
	Payload     SuggestionPayload `json:"payload" gorm:"type:jsonb"`
	Feedback    *string           `json:"feedback" gorm:"type:text"`
	CreatedAt   time.Time         `json:"created_at"`
	ResolvedAt  *time.Time        `json:"resolved_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Relations
	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
}

func (s *PropertySuggestion) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
