package repository

import (
	"context"
	"errors"

	"toolgate/internal/models"

	"gorm.io/gorm"
)

// ReportRepository defines persistence operations for usage reports.
type ReportRepository interface {
	GetByID(ctx context.Context, id uint) (*models.UsageReport, error)
	Create(ctx context.Context, report *models.UsageReport) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	List(ctx context.Context) ([]models.UsageReport, error)
	ListByUser(ctx context.Context, userID uint) ([]models.UsageReport, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	CountByStatus(ctx context.Context, status models.ReportStatus) (int64, error)
	AverageComplianceScore(ctx context.Context) (float64, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository returns a new ReportRepository implementation.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.UsageReport, error) {
	var report models.UsageReport
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Report", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &report, nil
}

func (r *reportRepository) Create(ctx context.Context, report *models.UsageReport) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reportRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.UsageReport{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Report", id)
	}
	return nil
}

func (r *reportRepository) List(ctx context.Context) ([]models.UsageReport, error) {
	var reports []models.UsageReport
	if err := r.db.WithContext(ctx).Order("submitted_date DESC").Find(&reports).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reports, nil
}

func (r *reportRepository) ListByUser(ctx context.Context, userID uint) ([]models.UsageReport, error) {
	var reports []models.UsageReport
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("submitted_date DESC").Find(&reports).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reports, nil
}

func (r *reportRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UsageReport{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *reportRepository) CountByStatus(ctx context.Context, status models.ReportStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UsageReport{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// AverageComplianceScore returns the mean compliance score across all reports,
// or 0 when there are none.
func (r *reportRepository) AverageComplianceScore(ctx context.Context) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).Model(&models.UsageReport{}).
		Select("AVG(compliance_score)").
		Scan(&avg).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
