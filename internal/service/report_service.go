package service

import (
	"context"
	"strings"
	"time"

	"toolgate/internal/models"
	"toolgate/internal/observability"
	"toolgate/internal/repository"
)

type ReportService struct {
	reportRepo  repository.ReportRepository
	requestRepo repository.RequestRepository
}

// SubmitReportInput carries a user's post-use compliance report.
type SubmitReportInput struct {
	UserID              uint
	UserName            string
	UserEmail           string
	ToolName            string
	DateOfUse           string
	PurposeOfUse        string
	LocationOfUse       string
	StepsDescription    string
	OutputsResults      string
	AdheredToPolicy     bool
	StayedWithinScope   bool
	NoThirdPartySharing bool
	NoMaliciousUse      bool
	Comments            string
	ToolRequestID       *uint
}

// ReviewReportInput carries an admin's review of a pending report.
type ReviewReportInput struct {
	ReportID     uint
	ReviewedBy   string
	Response     string
	AdminComment string
}

var validReportResponses = map[string]struct{}{
	models.ReportResponseApproved:              {},
	models.ReportResponseApprovedWithNotes:     {},
	models.ReportResponseRequiresClarification: {},
	models.ReportResponseNonCompliant:          {},
	models.ReportResponsePolicyViolation:       {},
}

func NewReportService(reportRepo repository.ReportRepository, requestRepo repository.RequestRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo, requestRepo: requestRepo}
}

// Submit validates and stores a usage report, fixing its compliance
// score at submission time. When the report references a tool request,
// that request's report flag is flipped so it stops counting as overdue.
func (s *ReportService) Submit(ctx context.Context, in SubmitReportInput) (*models.UsageReport, error) {
	if strings.TrimSpace(in.ToolName) == "" {
		return nil, models.NewValidationError("Tool name is required")
	}
	if strings.TrimSpace(in.DateOfUse) == "" {
		return nil, models.NewValidationError("Date of use is required")
	}
	if strings.TrimSpace(in.PurposeOfUse) == "" {
		return nil, models.NewValidationError("Purpose of use is required")
	}
	if strings.TrimSpace(in.LocationOfUse) == "" {
		return nil, models.NewValidationError("Location of use is required")
	}
	if strings.TrimSpace(in.StepsDescription) == "" {
		return nil, models.NewValidationError("Steps description is required")
	}
	if strings.TrimSpace(in.OutputsResults) == "" {
		return nil, models.NewValidationError("Outputs description is required")
	}
	if !in.AdheredToPolicy && !in.StayedWithinScope && !in.NoThirdPartySharing && !in.NoMaliciousUse {
		return nil, models.NewValidationError("At least one compliance attestation must be confirmed")
	}

	if in.ToolRequestID != nil {
		req, err := s.requestRepo.GetByID(ctx, *in.ToolRequestID)
		if err != nil {
			return nil, err
		}
		if req.UserID != in.UserID {
			return nil, models.NewUnauthorizedError("Cannot report on another user's request")
		}
	}

	report := &models.UsageReport{
		UserID:              in.UserID,
		UserName:            in.UserName,
		UserEmail:           in.UserEmail,
		ToolName:            strings.TrimSpace(in.ToolName),
		DateOfUse:           in.DateOfUse,
		SubmittedDate:       time.Now().UTC().Format("2006-01-02"),
		PurposeOfUse:        in.PurposeOfUse,
		LocationOfUse:       in.LocationOfUse,
		StepsDescription:    in.StepsDescription,
		OutputsResults:      in.OutputsResults,
		AdheredToPolicy:     in.AdheredToPolicy,
		StayedWithinScope:   in.StayedWithinScope,
		NoThirdPartySharing: in.NoThirdPartySharing,
		NoMaliciousUse:      in.NoMaliciousUse,
		Comments:            in.Comments,
		Status:              models.ReportStatusPending,
		ToolRequestID:       in.ToolRequestID,
	}
	report.ComplianceScore = report.ComputeComplianceScore()

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	if in.ToolRequestID != nil {
		if err := s.requestRepo.Update(ctx, *in.ToolRequestID, map[string]interface{}{
			"report_submitted": true,
		}); err != nil {
			return nil, err
		}
	}

	observability.ReportsSubmittedTotal.Inc()
	return report, nil
}

// Review applies an admin classification to a pending report. Responses
// prefixed "approved" resolve the report as reviewed; everything else
// flags it. Reviews are final.
func (s *ReportService) Review(ctx context.Context, in ReviewReportInput) (*models.UsageReport, error) {
	report, err := s.reportRepo.GetByID(ctx, in.ReportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportStatusPending {
		return nil, models.NewValidationError("Report has already been reviewed")
	}
	if _, ok := validReportResponses[in.Response]; !ok {
		return nil, models.NewValidationError("Invalid review response")
	}

	status := models.ReportStatusFlagged
	if strings.HasPrefix(in.Response, models.ReportResponseApproved) {
		status = models.ReportStatusReviewed
	}

	fields := map[string]interface{}{
		"status":         status,
		"admin_response": in.Response,
		"reviewed_by":    in.ReviewedBy,
		"reviewed_date":  time.Now().UTC().Format("2006-01-02"),
	}
	if in.AdminComment != "" {
		fields["admin_comment"] = in.AdminComment
	}

	if err := s.reportRepo.Update(ctx, in.ReportID, fields); err != nil {
		return nil, err
	}
	return s.reportRepo.GetByID(ctx, in.ReportID)
}

func (s *ReportService) GetByID(ctx context.Context, id uint) (*models.UsageReport, error) {
	return s.reportRepo.GetByID(ctx, id)
}

func (s *ReportService) ListAll(ctx context.Context) ([]models.UsageReport, error) {
	return s.reportRepo.List(ctx)
}

func (s *ReportService) ListByUser(ctx context.Context, userID uint) ([]models.UsageReport, error) {
	return s.reportRepo.ListByUser(ctx, userID)
}
