package models

import (
	"time"

	"gorm.io/gorm"
)

// SecurityLevel classifies how dangerous a tool is when misused.
type SecurityLevel string

const (
	SecurityLevelLow    SecurityLevel = "low"
	SecurityLevelMedium SecurityLevel = "medium"
	SecurityLevelHigh   SecurityLevel = "high"
)

// ToolEnvironment is where a tool may be run.
type ToolEnvironment string

const (
	EnvironmentProduction ToolEnvironment = "production"
	EnvironmentVirtual    ToolEnvironment = "virtual"
	EnvironmentIsolated   ToolEnvironment = "isolated"
)

// Tool is a cataloged security utility. Only approved tools appear in
// the user-facing catalog; admins see and manage all of them.
type Tool struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"not null;index" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Category      string          `gorm:"size:80" json:"category"`
	Version       string          `gorm:"size:40" json:"version"`
	SecurityLevel SecurityLevel   `gorm:"type:varchar(10);not null;default:'medium'" json:"security_level"`
	Environment   ToolEnvironment `gorm:"type:varchar(12);not null;default:'virtual'" json:"environment"`
	Documentation string          `gorm:"type:text" json:"documentation"`
	DownloadURL   string          `json:"download_url,omitempty"`
	WebInterface  string          `json:"web_interface,omitempty"`
	IsApproved    bool            `gorm:"not null;default:false;index" json:"is_approved"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}
