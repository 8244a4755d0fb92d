package handlers

import (
	"context"
	"io"

	"rewards/internal/models"
	"rewards/internal/repositories/cache"
	"rewards/internal/services/cards"
	"rewards/internal/services/catalog"
	"rewards/internal/services/rewards"
)

// CardManager is the card management service as the handlers use it.
type CardManager interface {
	CreateUser(ctx context.Context, preference string) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	AddCard(ctx context.Context, userID uint, input models.CreateCardInput) (*cards.CardDetails, error)
	ListCards(ctx context.Context, userID uint) ([]*models.Card, error)
	AddRewardRule(ctx context.Context, cardID uint, input models.CreateRuleInput) (*models.RewardRule, error)
	GetRewardRules(ctx context.Context, cardID uint) (*cards.CardDetails, error)
	ActivateCard(ctx context.Context, cardID uint) (*models.Card, error)
	DeactivateCard(ctx context.Context, cardID uint) (*models.Card, error)
	UpsertRewardBalance(ctx context.Context, cardID uint, balance float64) (*models.RewardBalance, error)
	GetRewardBalance(ctx context.Context, cardID uint) (*models.RewardBalance, error)
}

// RewardsEngine is the valuation engine as the handlers use it.
type RewardsEngine interface {
	EstimateReward(ctx context.Context, cardID uint, spend float64, category string) (*rewards.Estimate, error)
	RecommendBestCard(ctx context.Context, userID uint, spend float64, category string) (*rewards.Recommendation, error)
	SimulateMonthlySpend(ctx context.Context, userID uint, monthly map[string]float64) (*rewards.Simulation, error)
	AnalyzeWalletGaps(ctx context.Context, userID uint) (*rewards.WalletGaps, error)
	ClassifyMerchant(ctx context.Context, merchant string) rewards.Classification
	SetMerchantOverride(ctx context.Context, merchant, category string, confidence float64) (*models.MerchantOverride, error)
}

// CatalogService lists and imports the reference card catalog.
type CatalogService interface {
	List(ctx context.Context) ([]*models.CatalogCard, error)
	Import(ctx context.Context, r io.Reader) (*catalog.ImportResult, error)
}

// Pinger checks the database connection; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CacheProbe reports on the cache.
type CacheProbe interface {
	HealthCheck(ctx context.Context) error
	GetStats() cache.Stats
}
