package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scan statuses
const (
	ScanStatusInProgress = "IN_PROGRESS"
	ScanStatusCompleted  = "COMPLETED"
)

// PropertyScan is a stocktaking session over a property. At most one scan
// per property may be IN_PROGRESS at any time; the partial unique index
// backstops the service-level check under concurrent opens.
type PropertyScan struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	PropertyID  uuid.UUID  `json:"property_id" gorm:"type:uuid;not null;index;uniqueIndex:udx_scans_one_active,where:status = 'IN_PROGRESS'"`
	Status      string     `json:"status" gorm:"size:20;not null;default:'IN_PROGRESS'"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`

	// Relations
	Property *Property          `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Items    []PropertyScanItem `json:"items,omitempty" gorm:"foreignKey:ScanID"`
}

func (s *PropertyScan) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// PropertyScanItem tracks per-item progress of a scan. Rows are created when
// the scan opens; scanning an item flips the flag.
type PropertyScanItem struct {
	ScanID    uuid.UUID `json:"scan_id" gorm:"type:uuid;primaryKey"`
	ItemID    uuid.UUID `json:"item_id" gorm:"type:uuid;primaryKey"`
	Scanned   bool      `json:"scanned" gorm:"default:false"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Item *PropertyItem `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}
