package repository

import (
	"context"
	"errors"
	"time"

	"toolgate/internal/models"

	"gorm.io/gorm"
)

// RequestRepository defines persistence operations for tool requests.
type RequestRepository interface {
	GetByID(ctx context.Context, id uint) (*models.ToolRequest, error)
	Create(ctx context.Context, req *models.ToolRequest) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.ToolRequest, error)
	ListByUser(ctx context.Context, userID uint) ([]models.ToolRequest, error)
	ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.ToolRequest, error)
	ListApprovedBefore(ctx context.Context, cutoff time.Time) ([]models.ToolRequest, error)
	CountByStatus(ctx context.Context, status models.RequestStatus) (int64, error)
	CountByUserAndStatus(ctx context.Context, userID uint, status models.RequestStatus) (int64, error)
}

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository returns a new RequestRepository implementation.
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) GetByID(ctx context.Context, id uint) (*models.ToolRequest, error) {
	var req models.ToolRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *requestRepository) Create(ctx context.Context, req *models.ToolRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Update applies only the provided fields. Decision handlers rely on this so a
// rejection never writes approval-only columns.
func (r *requestRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.ToolRequest{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Request", id)
	}
	return nil
}

func (r *requestRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.ToolRequest{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Request", id)
	}
	return nil
}

func (r *requestRepository) List(ctx context.Context) ([]models.ToolRequest, error) {
	var reqs []models.ToolRequest
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *requestRepository) ListByUser(ctx context.Context, userID uint) ([]models.ToolRequest, error) {
	var reqs []models.ToolRequest
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *requestRepository) ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.ToolRequest, error) {
	var reqs []models.ToolRequest
	if err := r.db.WithContext(ctx).Where("status = ?", status).Order("created_at DESC").Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

// ListApprovedBefore returns approved requests whose approval predates
// cutoff. Used by the overdue sweeps.
func (r *requestRepository) ListApprovedBefore(ctx context.Context, cutoff time.Time) ([]models.ToolRequest, error) {
	var reqs []models.ToolRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", models.RequestStatusApproved).
		Where("approved_at IS NOT NULL AND approved_at < ?", cutoff).
		Order("approved_at ASC").
		Find(&reqs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *requestRepository) CountByStatus(ctx context.Context, status models.RequestStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ToolRequest{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *requestRepository) CountByUserAndStatus(ctx context.Context, userID uint, status models.RequestStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ToolRequest{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
