package repositories

import (
	"context"

	"rewards/internal/models"

	"gorm.io/gorm"
)

type CardRepository interface {
	// Core operations
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, id uint) (*models.Card, error)

	// Query operations
	GetActiveByUserID(ctx context.Context, userID uint) ([]*models.Card, error)
	ListByUserID(ctx context.Context, userID uint) ([]*models.Card, error)

	// Status operations
	SetActive(ctx context.Context, id uint, active bool) error
}

type cardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		return translate(err, ErrCardNotFound, "create card")
	}
	return nil
}

func (r *cardRepository) GetByID(ctx context.Context, id uint) (*models.Card, error) {
	var card models.Card
	if err := r.db.WithContext(ctx).First(&card, id).Error; err != nil {
		return nil, translate(err, ErrCardNotFound, "get card")
	}
	return &card, nil
}

// GetActiveByUserID returns active cards in id order.
func (r *cardRepository) GetActiveByUserID(ctx context.Context, userID uint) ([]*models.Card, error) {
	var cards []*models.Card
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("id ASC").
		Find(&cards).Error
	if err != nil {
		return nil, translate(err, ErrCardNotFound, "get active cards")
	}
	return cards, nil
}

// ListByUserID returns every card, active first, then by name.
func (r *cardRepository) ListByUserID(ctx context.Context, userID uint) ([]*models.Card, error) {
	var cards []*models.Card
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("active DESC").Order("name ASC").Order("id ASC").
		Find(&cards).Error
	if err != nil {
		return nil, translate(err, ErrCardNotFound, "list cards")
	}
	return cards, nil
}

func (r *cardRepository) SetActive(ctx context.Context, id uint, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.Card{}).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		return translate(result.Error, ErrCardNotFound, "update card status")
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}
