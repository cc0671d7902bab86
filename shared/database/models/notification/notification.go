package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification levels
const (
	NotificationLevelInfo    = "info"
	NotificationLevelSuccess = "success"
	NotificationLevelWarning = "warning"
	NotificationLevelError   = "error"
)

// Event types pushed over the live feed
const (
	EventSuggestionApproved = "suggestion_approved"
	EventSuggestionDeclined = "suggestion_declined"
	EventScanCompleted      = "scan_completed"
	EventConnection         = "connection"
)

// Notification - persisted notification feed entry for a principal
type Notification struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	PrincipalID uuid.UUID  `json:"principal_id" gorm:"type:uuid;not null;index"`
	Type        string     `json:"type" gorm:"size:100;not null"`
	Level       string     `json:"level" gorm:"size:50;not null;default:'info'"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Message     string     `json:"message" gorm:"type:text"`
	EntityID    *uuid.UUID `json:"entity_id" gorm:"type:uuid"`
	IsRead      bool       `json:"is_read" gorm:"default:false"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// WebSocketMessage is the envelope pushed to connected principals
type WebSocketMessage struct {
	Type        string     `json:"type"`
	Level       string     `json:"level"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	PrincipalID uuid.UUID  `json:"principal_id,omitempty"`
	EntityID    *uuid.UUID `json:"entity_id,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
}

// GetCurrentTime returns the current UTC time for message stamping
func GetCurrentTime() time.Time {
	return time.Now().UTC()
}
