package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PropertyItem is a tracked inventory asset. InventoryNumber,
// RegistrationNumber and DocumentNumber are unique within a property;
// SerialNumber is unique within a property when present.
type PropertyItem struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	PropertyID         uuid.UUID  `json:"property_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_item_inventory_no,priority:1;uniqueIndex:idx_item_registration_no,priority:1;uniqueIndex:idx_item_document_no,priority:1;uniqueIndex:idx_item_serial_no,priority:1"`
	EmployeeID         *uuid.UUID `json:"employee_id" gorm:"type:uuid;index"`
	Name               string     `json:"name" gorm:"size:200;not null"`
	Price              float64    `json:"price"`
	InventoryNumber    string     `json:"inventory_number" gorm:"size:100;not null;uniqueIndex:idx_item_inventory_no,priority:2"`
	RegistrationNumber string     `json:"registration_number" gorm:"size:100;not null;uniqueIndex:idx_item_registration_no,priority:2"`
	DocumentNumber     string     `json:"document_number" gorm:"size:100;not null;uniqueIndex:idx_item_document_no,priority:2"`
	SerialNumber       *string    `json:"serial_number" gorm:"size:100;uniqueIndex:idx_item_serial_no,priority:2"`
	PurchaseDate       time.Time  `json:"purchase_date"`
	SaleDate           *time.Time `json:"sale_date"`
	Location           string     `json:"location" gorm:"size:200"`
	Room               string     `json:"room" gorm:"size:100"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Relations
	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
}

func (i *PropertyItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
