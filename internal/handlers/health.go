package handlers

import (
	"context"
	"time"

	"paynet/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CacheHealth is the part of the cache service health checks need.
type CacheHealth interface {
	HealthCheck(ctx context.Context) error
	GetStats() *redis.PoolStats
}

type HealthHandler struct {
	db    *gorm.DB
	cache CacheHealth
}

func NewHealthHandler(db *gorm.DB, cache CacheHealth) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// HealthCheck reports the state of the database and Redis. Any failing
// dependency turns the response into a 503.
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	services := fiber.Map{"database": "connected", "redis": "connected"}

	if err := repositories.Ping(ctx, h.db); err != nil {
		status = fiber.StatusServiceUnavailable
		services["database"] = err.Error()
	}
	if h.cache == nil {
		services["redis"] = "disabled"
	} else if err := h.cache.HealthCheck(ctx); err != nil {
		status = fiber.StatusServiceUnavailable
		services["redis"] = err.Error()
	}

	state := "ok"
	if status != fiber.StatusOK {
		state = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   state,
		"version":  "1.0.0",
		"services": services,
	})
}

func (h *HealthHandler) CacheStats(c *fiber.Ctx) error {
	if h.cache == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "cache disabled"})
	}
	poolStats := h.cache.GetStats()

	return c.JSON(fiber.Map{
		"pool_stats": fiber.Map{
			"hits":        poolStats.Hits,
			"misses":      poolStats.Misses,
			"timeouts":    poolStats.Timeouts,
			"total_conns": poolStats.TotalConns,
			"idle_conns":  poolStats.IdleConns,
			"stale_conns": poolStats.StaleConns,
		},
	})
}
