package repositories

import (
	"context"
	"log"

	"rewards/internal/models"
	"rewards/internal/repositories/cache"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MerchantOverrideRepository interface {
	GetByMerchant(ctx context.Context, merchant string) (*models.MerchantOverride, error)
	Upsert(ctx context.Context, override *models.MerchantOverride) error
}

type merchantOverrideRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewMerchantOverrideRepository reads through cache when it is not nil.
func NewMerchantOverrideRepository(db *gorm.DB, cache *cache.CacheService) MerchantOverrideRepository {
	return &merchantOverrideRepository{db: db, cache: cache}
}

func (r *merchantOverrideRepository) GetByMerchant(ctx context.Context, merchant string) (*models.MerchantOverride, error) {
	if r.cache != nil {
		o, found, err := r.cache.GetOverride(ctx, merchant)
		if err != nil {
			log.Printf("override cache read failed for %q: %v", merchant, err)
		} else if found {
			return o, nil
		}
	}

	var o models.MerchantOverride
	if err := r.db.WithContext(ctx).Where("merchant = ?", merchant).First(&o).Error; err != nil {
		return nil, translate(err, ErrOverrideNotFound, "get merchant override")
	}
	if r.cache != nil {
		if err := r.cache.CacheOverride(ctx, &o); err != nil {
			log.Printf("failed to cache override for %q: %v", merchant, err)
		}
	}
	return &o, nil
}

// Upsert writes the override in one INSERT ... ON CONFLICT statement.
func (r *merchantOverrideRepository) Upsert(ctx context.Context, override *models.MerchantOverride) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "merchant"}},
			DoUpdates: clause.AssignmentColumns([]string{"category", "confidence", "updated_at"}),
		}).
		Create(override).Error
	if err != nil {
		return translate(err, ErrOverrideNotFound, "save merchant override")
	}
	if r.cache != nil {
		if err := r.cache.InvalidateOverride(ctx, override.Merchant); err != nil {
			log.Printf("failed to invalidate override cache for %q: %v", override.Merchant, err)
		}
	}
	return nil
}
