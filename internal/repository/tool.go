package repository

import (
	"context"
	"errors"

	"toolgate/internal/cache"
	"toolgate/internal/models"

	"gorm.io/gorm"
)

// ToolRepository defines persistence operations for catalog tools.
type ToolRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Tool, error)
	GetByName(ctx context.Context, name string) (*models.Tool, error)
	Create(ctx context.Context, tool *models.Tool) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.Tool, error)
	ListApproved(ctx context.Context) ([]models.Tool, error)
}

type toolRepository struct {
	db *gorm.DB
}

// NewToolRepository returns a new ToolRepository implementation.
func NewToolRepository(db *gorm.DB) ToolRepository {
	return &toolRepository{db: db}
}

func (r *toolRepository) GetByID(ctx context.Context, id uint) (*models.Tool, error) {
	var tool models.Tool
	key := cache.ToolKey(id)

	err := cache.CacheAside(ctx, key, &tool, cache.ToolTTL, func() error {
		if err := r.db.WithContext(ctx).First(&tool, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Tool", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &tool, nil
}

func (r *toolRepository) GetByName(ctx context.Context, name string) (*models.Tool, error) {
	var tool models.Tool
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tool).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &tool, nil
}

func (r *toolRepository) Create(ctx context.Context, tool *models.Tool) error {
	if err := r.db.WithContext(ctx).Create(tool).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Tool already exists")
		}
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.ToolCatalogKey)
	return nil
}

// Update applies only the provided fields so concurrent edits do not clobber
// columns the caller never touched.
func (r *toolRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Tool{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Tool", id)
	}
	cache.InvalidateTool(ctx, id)
	return nil
}

func (r *toolRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Tool{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Tool", id)
	}
	cache.InvalidateTool(ctx, id)
	return nil
}

func (r *toolRepository) List(ctx context.Context) ([]models.Tool, error) {
	var tools []models.Tool
	err := cache.CacheAside(ctx, cache.ToolCatalogKey, &tools, cache.CatalogTTL, func() error {
		if err := r.db.WithContext(ctx).Order("name ASC").Find(&tools).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tools, nil
}

func (r *toolRepository) ListApproved(ctx context.Context) ([]models.Tool, error) {
	var tools []models.Tool
	if err := r.db.WithContext(ctx).Where("is_approved = ?", true).Order("name ASC").Find(&tools).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tools, nil
}
