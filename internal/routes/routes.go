// Package routes defines the API routing configuration.
package routes

import (
	"log"

	"rewards/internal/config"
	"rewards/internal/handlers"
	"rewards/internal/repositories"
	"rewards/internal/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Users    *handlers.UserHandler
	Cards    *handlers.CardHandler
	Rewards  *handlers.RewardsHandler
	Merchant *handlers.MerchantHandler
	Catalog  *handlers.CatalogHandler
	Health   *handlers.HealthHandler
}

// SetupRoutes builds the services over db and the global cache and mounts
// every route.
func SetupRoutes(app *fiber.App, db *gorm.DB) *services.Services {
	svc := services.New(db, repositories.CacheService, config.LoadEngine())

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	var probe handlers.CacheProbe
	if repositories.CacheService != nil {
		probe = repositories.CacheService
	}

	Register(app, Handlers{
		Users:    handlers.NewUserHandler(svc.Cards),
		Cards:    handlers.NewCardHandler(svc.Cards),
		Rewards:  handlers.NewRewardsHandler(svc.Rewards),
		Merchant: handlers.NewMerchantHandler(svc.Rewards),
		Catalog:  handlers.NewCatalogHandler(svc.Catalog),
		Health:   handlers.NewHealthHandler(sqlDB, probe),
	})
	return svc
}

// Register mounts the handlers on app.
func Register(app *fiber.App, h Handlers) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to the Rewards API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})
	app.Get("/health", h.Health.HealthCheck)
	app.Get("/health/cache", h.Health.CacheStats)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("", h.Users.CreateUser)
	users.Get("/:id", h.Users.GetUser)
	users.Post("/:id/cards", h.Users.AddCard)
	users.Get("/:id/cards", h.Users.ListCards)
	users.Get("/:id/gaps", h.Rewards.WalletGaps)

	cards := api.Group("/cards")
	cards.Post("/:id/rules", h.Cards.AddRewardRule)
	cards.Get("/:id/rules", h.Cards.GetRewardRules)
	cards.Post("/:id/activate", h.Cards.ActivateCard)
	cards.Post("/:id/deactivate", h.Cards.DeactivateCard)
	cards.Put("/:id/balance", h.Cards.UpsertBalance)
	cards.Get("/:id/balance", h.Cards.GetBalance)

	api.Post("/estimate", h.Rewards.Estimate)
	api.Post("/recommend", h.Rewards.Recommend)
	api.Post("/simulate", h.Rewards.Simulate)

	merchants := api.Group("/merchants")
	merchants.Post("/classify", h.Merchant.Classify)
	merchants.Put("/override", h.Merchant.SetOverride)

	api.Get("/catalog", h.Catalog.List)
	api.Post("/catalog/import", h.Catalog.Import)
}
