package models

import "time"

// ReportStatus defines lifecycle states for usage reports.
type ReportStatus string

const (
	// ReportStatusPending indicates the report is awaiting admin review.
	ReportStatusPending ReportStatus = "pending"
	// ReportStatusReviewed indicates the usage was found compliant.
	ReportStatusReviewed ReportStatus = "reviewed"
	// ReportStatusFlagged indicates the usage needs follow-up.
	ReportStatusFlagged ReportStatus = "flagged"
)

// Admin response classifications for a usage report review. Responses
// with the "approved" prefix resolve to ReportStatusReviewed, the rest
// to ReportStatusFlagged.
const (
	ReportResponseApproved              = "approved"
	ReportResponseApprovedWithNotes     = "approved-with-notes"
	ReportResponseRequiresClarification = "requires-clarification"
	ReportResponseNonCompliant          = "non-compliant"
	ReportResponsePolicyViolation       = "policy-violation"
)

// AttestationPoints is the score value of each true compliance
// attestation; four attestations give a 0-100 range.
const AttestationPoints = 25

// UsageReport is a user's post-use compliance declaration for a tool.
// ComplianceScore is fixed at submission and never recomputed.
type UsageReport struct {
	ID                  uint         `gorm:"primaryKey" json:"id"`
	UserID              uint         `gorm:"not null;index" json:"user_id"`
	User                *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	UserName            string       `gorm:"not null" json:"user_name"`
	UserEmail           string       `gorm:"not null" json:"user_email"`
	ToolName            string       `gorm:"not null;index" json:"tool_name"`
	DateOfUse           string       `gorm:"size:10;not null" json:"date_of_use"`
	SubmittedDate       string       `gorm:"size:10;not null;index" json:"submitted_date"`
	PurposeOfUse        string       `gorm:"type:text;not null" json:"purpose_of_use"`
	LocationOfUse       string       `gorm:"not null" json:"location_of_use"`
	StepsDescription    string       `gorm:"type:text;not null" json:"steps_description"`
	OutputsResults      string       `gorm:"type:text;not null" json:"outputs_results"`
	AdheredToPolicy     bool         `gorm:"not null" json:"adhered_to_policy"`
	StayedWithinScope   bool         `gorm:"not null" json:"stayed_within_scope"`
	NoThirdPartySharing bool         `gorm:"not null" json:"no_third_party_sharing"`
	NoMaliciousUse      bool         `gorm:"not null" json:"no_malicious_use"`
	Comments            string       `gorm:"type:text" json:"comments,omitempty"`
	Status              ReportStatus `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	AdminResponse       string       `gorm:"size:30" json:"admin_response,omitempty"`
	AdminComment        string       `gorm:"type:text" json:"admin_comment,omitempty"`
	ReviewedBy          string       `json:"reviewed_by,omitempty"`
	ReviewedDate        string       `gorm:"size:10" json:"reviewed_date,omitempty"`
	ComplianceScore     int          `gorm:"not null" json:"compliance_score"`
	ToolRequestID       *uint        `gorm:"index" json:"tool_request_id,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// Attestations returns the four compliance attestations in a fixed order.
func (r *UsageReport) Attestations() [4]bool {
	return [4]bool{r.AdheredToPolicy, r.StayedWithinScope, r.NoThirdPartySharing, r.NoMaliciousUse}
}

// ComputeComplianceScore derives the 0-100 score from the attestations.
func (r *UsageReport) ComputeComplianceScore() int {
	score := 0
	for _, ok := range r.Attestations() {
		if ok {
			score += AttestationPoints
		}
	}
	return score
}
