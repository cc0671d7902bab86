package document

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemDocument is a file (invoice, photo, warranty) attached to a property
// item. The binary lives in MinIO under ObjectKey; this row is the index.
type ItemDocument struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ItemID       uuid.UUID `json:"item_id" gorm:"type:uuid;not null;index"`
	FileName     string    `json:"file_name" gorm:"size:255;not null"`
	ObjectKey    string    `json:"object_key" gorm:"size:512;uniqueIndex;not null"`
	ContentType  string    `json:"content_type" gorm:"size:100"`
	SizeBytes    int64     `json:"size_bytes"`
	UploadedByID uuid.UUID `json:"uploaded_by_id" gorm:"type:uuid;not null"`
	UploadedBy   string    `json:"uploaded_by" gorm:"size:20;not null"` // ADMIN or EMPLOYEE
	CreatedAt    time.Time `json:"created_at"`
}

func (d *ItemDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
