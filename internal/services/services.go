// Package services wires repositories into the rewards, cards and catalog
// services. The server and the seeding CLI share it.
package services

import (
	"log"

	"rewards/internal/config"
	"rewards/internal/repositories"
	"rewards/internal/repositories/cache"
	"rewards/internal/services/cards"
	"rewards/internal/services/catalog"
	"rewards/internal/services/ranking"
	"rewards/internal/services/rewards"

	"gorm.io/gorm"
)

// Services holds the application services built over one database.
type Services struct {
	Tables  *rewards.Tables
	Rewards *rewards.Service
	Cards   *cards.Service
	Catalog *catalog.Service
}

// New builds the services. cacheSvc may be nil, in which case every read
// goes to postgres.
func New(db *gorm.DB, cacheSvc *cache.CacheService, cfg config.Engine) *Services {
	tables := rewards.TablesFromConfig(cfg)

	userRepo := repositories.NewUserRepository(db, cacheSvc)
	cardRepo := repositories.NewCardRepository(db)
	ruleRepo := repositories.NewRuleRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	overrideRepo := repositories.NewMerchantOverrideRepository(db, cacheSvc)
	balanceRepo := repositories.NewRewardBalanceRepository(db)

	var catalogCache catalog.Cache
	if cacheSvc != nil {
		catalogCache = cacheSvc
	}
	catalogService := catalog.NewService(tables, catalogRepo, catalogCache, cfg.CatalogCacheTTL)

	reranker := ranking.FromConfig(cfg)
	if reranker != nil {
		log.Printf("🔀 Reranking near ties via %s", cfg.RankingURL)
	}

	return &Services{
		Tables: tables,
		Rewards: rewards.NewService(
			tables,
			userRepo,
			cardRepo,
			ruleRepo,
			catalogService,
			overrideRepo,
			rewards.Options{Reranker: reranker, RerankTimeout: cfg.RankingTimeout},
		),
		Cards:   cards.NewService(tables, userRepo, cardRepo, ruleRepo, balanceRepo, catalogRepo),
		Catalog: catalogService,
	}
}
