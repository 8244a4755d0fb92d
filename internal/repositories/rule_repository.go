package repositories

import (
	"context"
	"errors"

	"rewards/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RuleRepository interface {
	// Create inserts one rule; a second rule for the same card and
	// category is ErrDuplicateRule.
	Create(ctx context.Context, rule *models.RewardRule) error
	// CreateMissing inserts rules, skipping categories the card already has.
	CreateMissing(ctx context.Context, rules []*models.RewardRule) error
	// GetByCardID returns the card's rules in insertion order.
	GetByCardID(ctx context.Context, cardID uint) ([]*models.RewardRule, error)
}

type ruleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) RuleRepository {
	return &ruleRepository{db: db}
}

func (r *ruleRepository) Create(ctx context.Context, rule *models.RewardRule) error {
	err := r.db.WithContext(ctx).Create(rule).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRule
	}
	if err != nil {
		return translate(err, ErrCardNotFound, "create reward rule")
	}
	return nil
}

func (r *ruleRepository) CreateMissing(ctx context.Context, rules []*models.RewardRule) error {
	if len(rules) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "card_id"}, {Name: "category"}},
			DoNothing: true,
		}).
		Create(&rules).Error
	if err != nil {
		return translate(err, ErrCardNotFound, "seed reward rules")
	}
	return nil
}

func (r *ruleRepository) GetByCardID(ctx context.Context, cardID uint) ([]*models.RewardRule, error) {
	var rules []*models.RewardRule
	if err := r.db.WithContext(ctx).Where("card_id = ?", cardID).Order("id ASC").Find(&rules).Error; err != nil {
		return nil, translate(err, ErrCardNotFound, "get reward rules")
	}
	return rules, nil
}
