package service

import (
	"context"
	"fmt"

	"toolgate/internal/models"
	"toolgate/internal/observability"
	"toolgate/internal/repository"
)

type AlertService struct {
	alertRepo   repository.AlertRepository
	requestRepo repository.RequestRepository
}

func NewAlertService(alertRepo repository.AlertRepository, requestRepo repository.RequestRepository) *AlertService {
	return &AlertService{alertRepo: alertRepo, requestRepo: requestRepo}
}

// SendOverdueReminder creates a warning alert for the requesting user
// plus a broadcast info alert for admins, and marks the request so the
// reminder is not re-sent.
func (s *AlertService) SendOverdueReminder(ctx context.Context, requestID uint) error {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status != models.RequestStatusApproved {
		return models.NewValidationError("Only approved requests can have overdue reminders")
	}
	if req.AlertSent {
		return models.NewValidationError("A reminder has already been sent for this request")
	}

	userAlert := &models.Alert{
		Title:   "Usage Report Overdue",
		Message: fmt.Sprintf("Your usage report for %q is overdue. Please submit it as soon as possible.", req.ToolName),
		Type:    models.AlertTypeWarning,
		UserID:  &req.UserID,
	}
	if err := s.alertRepo.Create(ctx, userAlert); err != nil {
		return err
	}

	adminAlert := &models.Alert{
		Title:   "Overdue Report Reminder Sent",
		Message: fmt.Sprintf("%s was reminded to submit the usage report for %q.", req.UserName, req.ToolName),
		Type:    models.AlertTypeInfo,
	}
	if err := s.alertRepo.Create(ctx, adminAlert); err != nil {
		return err
	}

	if err := s.requestRepo.Update(ctx, requestID, map[string]interface{}{
		"alert_sent": true,
	}); err != nil {
		return err
	}

	observability.OverdueRemindersTotal.Inc()
	return nil
}

// ListForUser returns the user's own alerts plus broadcasts.
func (s *AlertService) ListForUser(ctx context.Context, userID uint) ([]models.Alert, error) {
	return s.alertRepo.ListForUser(ctx, userID)
}

// MarkRead flips the read flag on an alert the user can see.
func (s *AlertService) MarkRead(ctx context.Context, userID uint, alertID uint) error {
	alert, err := s.alertRepo.GetByID(ctx, alertID)
	if err != nil {
		return err
	}
	if alert.UserID != nil && *alert.UserID != userID {
		return models.NewUnauthorizedError("Cannot modify another user's alert")
	}
	return s.alertRepo.MarkRead(ctx, alertID)
}

// Delete removes an alert the user can see.
func (s *AlertService) Delete(ctx context.Context, userID uint, alertID uint) error {
	alert, err := s.alertRepo.GetByID(ctx, alertID)
	if err != nil {
		return err
	}
	if alert.UserID != nil && *alert.UserID != userID {
		return models.NewUnauthorizedError("Cannot delete another user's alert")
	}
	return s.alertRepo.Delete(ctx, alertID)
}
