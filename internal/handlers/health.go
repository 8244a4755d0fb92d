package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	db    Pinger
	cache CacheProbe
}

// NewHealthHandler builds the health endpoints. cache may be nil.
func NewHealthHandler(db Pinger, cache CacheProbe) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// HealthCheck reports 503 when the database is down. A down cache only
// degrades the service.
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	status, code := "ok", fiber.StatusOK
	database, redis := "connected", "disabled"

	if err := h.db.PingContext(ctx); err != nil {
		database = "unavailable"
		status, code = "down", fiber.StatusServiceUnavailable
	}
	if h.cache != nil {
		redis = "connected"
		if err := h.cache.HealthCheck(ctx); err != nil {
			redis = "unavailable"
			if code == fiber.StatusOK {
				status = "degraded"
			}
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  status,
		"version": "1.0.0",
		"services": fiber.Map{
			"database": database,
			"redis":    redis,
		},
	})
}

func (h *HealthHandler) CacheStats(c *fiber.Ctx) error {
	if h.cache == nil {
		return c.JSON(fiber.Map{"cache_stats": nil})
	}
	return c.JSON(fiber.Map{"cache_stats": h.cache.GetStats()})
}
