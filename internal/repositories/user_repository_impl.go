package repositories

import (
	"context"
	"log"

	"rewards/internal/models"
	"rewards/internal/repositories/cache"

	"gorm.io/gorm"
)

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewUserRepository creates a new instance of UserRepository. cache may be
// nil.
func NewUserRepository(db *gorm.DB, cache *cache.CacheService) UserRepository {
	return &userRepository{
		db:    db,
		cache: cache,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err, ErrUserNotFound, "create user")
	}
	r.remember(ctx, user)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if r.cache != nil {
		if user, found, err := r.cache.GetUser(ctx, id); err == nil && found {
			return user, nil
		} else if err != nil {
			log.Printf("user cache read failed for %d: %v", id, err)
		}
	}

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, ErrUserNotFound, "get user")
	}
	r.remember(ctx, &user)
	return &user, nil
}

func (r *userRepository) remember(ctx context.Context, user *models.User) {
	if r.cache == nil {
		return
	}
	if err := r.cache.CacheUser(ctx, user); err != nil {
		log.Printf("failed to cache user %d: %v", user.ID, err)
	}
}
