package cards

import (
	"context"

	"rewards/internal/models"
)

// UserStore persists users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// CardStore persists cards
type CardStore interface {
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, id uint) (*models.Card, error)
	ListByUserID(ctx context.Context, userID uint) ([]*models.Card, error)
	SetActive(ctx context.Context, id uint, active bool) error
}

// RuleStore persists reward rules
type RuleStore interface {
	Create(ctx context.Context, rule *models.RewardRule) error
	CreateMissing(ctx context.Context, rules []*models.RewardRule) error
	GetByCardID(ctx context.Context, cardID uint) ([]*models.RewardRule, error)
}

// BalanceStore persists reward balances
type BalanceStore interface {
	Upsert(ctx context.Context, balance *models.RewardBalance) error
	GetByCardID(ctx context.Context, cardID uint) (*models.RewardBalance, error)
}

// CatalogFinder looks up reference cards for rule seeding
type CatalogFinder interface {
	FindByNameBank(ctx context.Context, name, bank string) (*models.CatalogCard, error)
}
