package rewards

import (
	"context"

	"rewards/internal/models"
)

// UserReader loads users by id.
type UserReader interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// CardReader loads cards. GetActiveByUserID must return cards in a stable
// order (by id) so ties keep a deterministic order.
type CardReader interface {
	GetByID(ctx context.Context, id uint) (*models.Card, error)
	GetActiveByUserID(ctx context.Context, userID uint) ([]*models.Card, error)
}

// RuleReader loads the reward rules of a card.
type RuleReader interface {
	GetByCardID(ctx context.Context, cardID uint) ([]*models.RewardRule, error)
}

// CatalogReader lists the reference card catalog.
type CatalogReader interface {
	List(ctx context.Context) ([]*models.CatalogCard, error)
}

// Reranker is the optional external ranking collaborator. It may only
// reorder the candidates it is given; it returns their ids in the
// preferred order.
type Reranker interface {
	Rerank(ctx context.Context, req RerankRequest) ([]uint, error)
}
