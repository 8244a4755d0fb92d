package repositories

import (
	"context"

	"rewards/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RewardBalanceRepository interface {
	// Upsert sets the balance of a card in a single statement.
	Upsert(ctx context.Context, balance *models.RewardBalance) error
	GetByCardID(ctx context.Context, cardID uint) (*models.RewardBalance, error)
}

type rewardBalanceRepository struct {
	db *gorm.DB
}

func NewRewardBalanceRepository(db *gorm.DB) RewardBalanceRepository {
	return &rewardBalanceRepository{db: db}
}

func (r *rewardBalanceRepository) Upsert(ctx context.Context, balance *models.RewardBalance) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "card_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"balance", "updated_at"}),
		}).
		Create(balance).Error
	if err != nil {
		return translate(err, ErrBalanceNotFound, "save reward balance")
	}
	return nil
}

func (r *rewardBalanceRepository) GetByCardID(ctx context.Context, cardID uint) (*models.RewardBalance, error) {
	var b models.RewardBalance
	if err := r.db.WithContext(ctx).Where("card_id = ?", cardID).First(&b).Error; err != nil {
		return nil, translate(err, ErrBalanceNotFound, "get reward balance")
	}
	return &b, nil
}
