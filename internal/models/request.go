package models

import "time"

// RequestStatus defines lifecycle states for tool access requests.
type RequestStatus string

const (
	// RequestStatusPending indicates the request is awaiting review.
	RequestStatusPending RequestStatus = "pending"
	// RequestStatusApproved indicates an admin granted access.
	RequestStatusApproved RequestStatus = "approved"
	// RequestStatusRejected indicates an admin denied access.
	RequestStatusRejected RequestStatus = "rejected"
)

// RequestDuration enumerates how long access is requested for.
type RequestDuration string

const (
	DurationOneWeek     RequestDuration = "1-week"
	DurationTwoWeeks    RequestDuration = "2-weeks"
	DurationOneMonth    RequestDuration = "1-month"
	DurationThreeMonths RequestDuration = "3-months"
	DurationSixMonths   RequestDuration = "6-months"
	DurationPermanent   RequestDuration = "permanent"
)

// DurationDays maps a requested duration to the number of days before a
// usage report is due. Permanent access still expects a report
// eventually, so it gets a far-future deadline rather than none.
var DurationDays = map[RequestDuration]int{
	DurationOneWeek:     7,
	DurationTwoWeeks:    14,
	DurationOneMonth:    30,
	DurationThreeMonths: 90,
	DurationSixMonths:   180,
	DurationPermanent:   9999,
}

// ToolRequest is a user's ask for access to a (possibly uncataloged)
// security tool. Status only ever moves pending -> approved|rejected.
type ToolRequest struct {
	ID                     uint            `gorm:"primaryKey" json:"id"`
	UserID                 uint            `gorm:"not null;index" json:"user_id"`
	User                   *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	UserName               string          `gorm:"not null" json:"user_name"`
	UserEmail              string          `gorm:"not null" json:"user_email"`
	ToolName               string          `gorm:"not null;index" json:"tool_name"`
	Purpose                string          `gorm:"type:text;not null" json:"purpose"`
	Environment            string          `gorm:"size:20;not null" json:"environment"`
	Duration               RequestDuration `gorm:"type:varchar(12);not null" json:"duration"`
	Justification          string          `gorm:"type:text;not null" json:"justification"`
	AlternativesConsidered string          `gorm:"type:text" json:"alternatives_considered,omitempty"`
	RiskAssessment         string          `gorm:"type:text" json:"risk_assessment,omitempty"`
	Status                 RequestStatus   `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	AdminResponse          string          `gorm:"size:20" json:"admin_response,omitempty"`
	AdminComment           string          `gorm:"type:text" json:"admin_comment,omitempty"`
	SecurityInstructions   string          `gorm:"type:text" json:"security_instructions,omitempty"`
	ApprovedEnvironment    string          `gorm:"size:20" json:"approved_environment,omitempty"`
	ReviewedBy             string          `json:"reviewed_by,omitempty"`
	ReviewedDate           string          `gorm:"size:10" json:"reviewed_date,omitempty"`
	ApprovedAt             *time.Time      `json:"approved_at,omitempty"`
	AlertSent              bool            `gorm:"not null;default:false" json:"alert_sent"`
	// ReportSubmitted is nil until the request is approved; approval
	// sets it to false and a linked usage report flips it to true.
	ReportSubmitted *bool     `json:"report_submitted,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
