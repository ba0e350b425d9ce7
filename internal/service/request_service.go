// Package service holds the business logic between handlers and repositories.
package service

import (
	"context"
	"strings"
	"time"

	"toolgate/internal/models"
	"toolgate/internal/observability"
	"toolgate/internal/repository"
)

// FlatOverdueDays is the admin-side overdue threshold: any approved
// request older than this without a report shows up on the admin
// dashboard regardless of its requested duration.
const FlatOverdueDays = 7

type RequestService struct {
	requestRepo repository.RequestRepository
}

// SubmitRequestInput carries a user's tool access request.
type SubmitRequestInput struct {
	UserID                 uint
	UserName               string
	UserEmail              string
	ToolName               string
	Purpose                string
	Environment            string
	Duration               models.RequestDuration
	Justification          string
	AlternativesConsidered string
	RiskAssessment         string
}

// DecideRequestInput carries an admin decision on a pending request.
type DecideRequestInput struct {
	RequestID            uint
	ReviewedBy           string
	Response             models.RequestStatus
	AdminComment         string
	SecurityInstructions string
	ApprovedEnvironment  string
}

func NewRequestService(requestRepo repository.RequestRepository) *RequestService {
	return &RequestService{requestRepo: requestRepo}
}

// Submit validates and stores a new tool request in pending state.
func (s *RequestService) Submit(ctx context.Context, in SubmitRequestInput) (*models.ToolRequest, error) {
	if strings.TrimSpace(in.ToolName) == "" {
		return nil, models.NewValidationError("Tool name is required")
	}
	if strings.TrimSpace(in.Purpose) == "" {
		return nil, models.NewValidationError("Purpose is required")
	}
	if strings.TrimSpace(in.Justification) == "" {
		return nil, models.NewValidationError("Justification is required")
	}
	if in.Environment == "" {
		return nil, models.NewValidationError("Environment is required")
	}
	if _, ok := models.DurationDays[in.Duration]; !ok {
		return nil, models.NewValidationError("Invalid duration")
	}

	req := &models.ToolRequest{
		UserID:                 in.UserID,
		UserName:               in.UserName,
		UserEmail:              in.UserEmail,
		ToolName:               strings.TrimSpace(in.ToolName),
		Purpose:                in.Purpose,
		Environment:            in.Environment,
		Duration:               in.Duration,
		Justification:          in.Justification,
		AlternativesConsidered: in.AlternativesConsidered,
		RiskAssessment:         in.RiskAssessment,
		Status:                 models.RequestStatusPending,
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Decide applies an admin approval or rejection to a pending request.
// Decisions are final: a request that already left pending cannot be
// decided again.
func (s *RequestService) Decide(ctx context.Context, in DecideRequestInput) (*models.ToolRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.RequestStatusPending {
		return nil, models.NewValidationError("Request has already been decided")
	}

	now := time.Now().UTC()
	fields := map[string]interface{}{
		"status":        in.Response,
		"reviewed_by":   in.ReviewedBy,
		"reviewed_date": now.Format("2006-01-02"),
	}

	switch in.Response {
	case models.RequestStatusApproved:
		if in.ApprovedEnvironment == "" {
			return nil, models.NewValidationError("Approved environment is required")
		}
		fields["admin_response"] = "approved"
		fields["approved_environment"] = in.ApprovedEnvironment
		fields["approved_at"] = now
		fields["report_submitted"] = false
		if in.SecurityInstructions != "" {
			fields["security_instructions"] = in.SecurityInstructions
		}
		if in.AdminComment != "" {
			fields["admin_comment"] = in.AdminComment
		}
	case models.RequestStatusRejected:
		if len(strings.ReplaceAll(in.AdminComment, " ", "")) < 3 {
			return nil, models.NewValidationError("A rejection comment of at least 3 characters is required")
		}
		fields["admin_response"] = "rejected"
		fields["admin_comment"] = in.AdminComment
	default:
		return nil, models.NewValidationError("Decision must be approved or rejected")
	}

	if err := s.requestRepo.Update(ctx, in.RequestID, fields); err != nil {
		return nil, err
	}
	observability.RequestDecisionsTotal.WithLabelValues(string(in.Response)).Inc()

	return s.requestRepo.GetByID(ctx, in.RequestID)
}

func (s *RequestService) GetByID(ctx context.Context, id uint) (*models.ToolRequest, error) {
	return s.requestRepo.GetByID(ctx, id)
}

func (s *RequestService) ListAll(ctx context.Context) ([]models.ToolRequest, error) {
	return s.requestRepo.List(ctx)
}

func (s *RequestService) ListByUser(ctx context.Context, userID uint) ([]models.ToolRequest, error) {
	return s.requestRepo.ListByUser(ctx, userID)
}

// FlatOverdue reports whether a request is overdue by the admin rule:
// approved more than FlatOverdueDays ago. A submitted report does not
// clear it; the admin sweep flags every aged approval.
func FlatOverdue(req *models.ToolRequest, now time.Time) bool {
	if req.Status != models.RequestStatusApproved || req.ApprovedAt == nil {
		return false
	}
	return now.Sub(*req.ApprovedAt) > FlatOverdueDays*24*time.Hour
}

// DeadlineOverdue reports whether a request is overdue by the user rule:
// the report deadline derived from the requested duration has passed and
// no report was submitted.
func DeadlineOverdue(req *models.ToolRequest, now time.Time) bool {
	if req.Status != models.RequestStatusApproved || req.ApprovedAt == nil {
		return false
	}
	if req.ReportSubmitted != nil && *req.ReportSubmitted {
		return false
	}
	days, ok := models.DurationDays[req.Duration]
	if !ok {
		days = models.DurationDays[models.DurationOneWeek]
	}
	deadline := req.ApprovedAt.Add(time.Duration(days) * 24 * time.Hour)
	return now.After(deadline)
}

// ListFlatOverdue returns requests overdue under the admin rule, oldest
// approval first.
func (s *RequestService) ListFlatOverdue(ctx context.Context) ([]models.ToolRequest, error) {
	now := time.Now().UTC()
	cutoff := now.Add(-FlatOverdueDays * 24 * time.Hour)
	candidates, err := s.requestRepo.ListApprovedBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	overdue := make([]models.ToolRequest, 0, len(candidates))
	for _, req := range candidates {
		if FlatOverdue(&req, now) {
			overdue = append(overdue, req)
		}
	}
	return overdue, nil
}

// ListDeadlineOverdueForUser returns the user's requests overdue under
// the duration-aware rule.
func (s *RequestService) ListDeadlineOverdueForUser(ctx context.Context, userID uint) ([]models.ToolRequest, error) {
	reqs, err := s.requestRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	overdue := make([]models.ToolRequest, 0)
	for _, req := range reqs {
		if DeadlineOverdue(&req, now) {
			overdue = append(overdue, req)
		}
	}
	return overdue, nil
}
