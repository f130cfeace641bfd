package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/smartmeet/meeting-assistant-api/database"
	"github.com/smartmeet/meeting-assistant-api/utils/cache"
	"github.com/smartmeet/meeting-assistant-api/utils/response"
)

// HealthHandler reports liveness of the API and its dependencies
type HealthHandler struct {
	store database.Storage
	redis *cache.RedisCache
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store database.Storage, redis *cache.RedisCache) *HealthHandler {
	return &HealthHandler{store: store, redis: redis}
}

// Ping handles GET /ping. Degraded dependencies are reported but do not
// fail the endpoint; load balancers only need to know the process is up.
func (h *HealthHandler) Ping(c *fiber.Ctx) error {
	checks := fiber.Map{
		"api": "ok",
	}

	if h.store != nil {
		if err := h.store.HealthCheck(); err != nil {
			checks["database"] = "unavailable"
		} else {
			checks["database"] = "ok"
		}
	}

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.redis.HealthCheck(ctx); err != nil {
			checks["redis"] = "unavailable"
		} else {
			checks["redis"] = "ok"
		}
	}

	return response.Success(c, fiber.Map{
		"status":    "healthy",
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
