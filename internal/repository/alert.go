package repository

import (
	"context"
	"errors"

	"toolgate/internal/models"

	"gorm.io/gorm"
)

// AlertRepository defines persistence operations for alerts and notifications.
type AlertRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Alert, error)
	Create(ctx context.Context, alert *models.Alert) error
	MarkRead(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.Alert, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Alert, error)
}

type alertRepository struct {
	db *gorm.DB
}

// NewAlertRepository returns a new AlertRepository implementation.
func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) GetByID(ctx context.Context, id uint) (*models.Alert, error) {
	var alert models.Alert
	if err := r.db.WithContext(ctx).First(&alert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Alert", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &alert, nil
}

func (r *alertRepository) Create(ctx context.Context, alert *models.Alert) error {
	if err := r.db.WithContext(ctx).Create(alert).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *alertRepository) MarkRead(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Alert{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Alert", id)
	}
	return nil
}

func (r *alertRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Alert{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Alert", id)
	}
	return nil
}

func (r *alertRepository) List(ctx context.Context) ([]models.Alert, error) {
	var alerts []models.Alert
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&alerts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return alerts, nil
}

// ListForUser returns alerts addressed to the user plus broadcasts (nil user_id).
func (r *alertRepository) ListForUser(ctx context.Context, userID uint) ([]models.Alert, error) {
	var alerts []models.Alert
	err := r.db.WithContext(ctx).
		Where("user_id = ? OR user_id IS NULL", userID).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return alerts, nil
}
