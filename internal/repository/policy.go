package repository

import (
	"context"
	"errors"

	"toolgate/internal/cache"
	"toolgate/internal/models"

	"gorm.io/gorm"
)

// PolicyRepository defines persistence operations for security policies.
type PolicyRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Policy, error)
	Create(ctx context.Context, policy *models.Policy) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.Policy, error)
}

type policyRepository struct {
	db *gorm.DB
}

// NewPolicyRepository returns a new PolicyRepository implementation.
func NewPolicyRepository(db *gorm.DB) PolicyRepository {
	return &policyRepository{db: db}
}

func (r *policyRepository) GetByID(ctx context.Context, id uint) (*models.Policy, error) {
	var policy models.Policy
	key := cache.PolicyKey(id)

	err := cache.CacheAside(ctx, key, &policy, cache.PolicyTTL, func() error {
		if err := r.db.WithContext(ctx).First(&policy, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Policy", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *policyRepository) Create(ctx context.Context, policy *models.Policy) error {
	if err := r.db.WithContext(ctx).Create(policy).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PolicyListKey)
	return nil
}

func (r *policyRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Policy{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Policy", id)
	}
	cache.InvalidatePolicy(ctx, id)
	return nil
}

func (r *policyRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Policy{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Policy", id)
	}
	cache.InvalidatePolicy(ctx, id)
	return nil
}

func (r *policyRepository) List(ctx context.Context) ([]models.Policy, error) {
	var policies []models.Policy
	err := cache.CacheAside(ctx, cache.PolicyListKey, &policies, cache.PolicyTTL, func() error {
		if err := r.db.WithContext(ctx).Order("title ASC").Find(&policies).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return policies, nil
}
