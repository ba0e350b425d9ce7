package models

import "time"

// AlertType is the display classification of an alert.
type AlertType string

const (
	AlertTypeInfo    AlertType = "info"
	AlertTypeWarning AlertType = "warning"
	AlertTypeError   AlertType = "error"
	AlertTypeSuccess AlertType = "success"
)

// Alert is a notification delivered to one user, or to everyone when
// UserID is nil. Alerts are only ever mutated to flip the read flag.
type Alert struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      AlertType `gorm:"type:varchar(10);not null;default:'info'" json:"type"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
