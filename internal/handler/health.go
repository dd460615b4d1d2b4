package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness plus the state of the optional stores.
// Either store may be nil when the gateway runs without it.
type HealthHandler struct {
	DB    *sql.DB
	Redis *redis.Client
}

// Health answers 200 while the process serves requests; degraded stores are
// listed but do not fail the check because the gateway falls back to
// in-memory state.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	deps := echo.Map{"mysql": "disabled", "redis": "disabled"}
	if h.DB != nil {
		deps["mysql"] = "ok"
		if err := h.DB.PingContext(ctx); err != nil {
			deps["mysql"] = err.Error()
		}
	}
	if h.Redis != nil {
		deps["redis"] = "ok"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			deps["redis"] = err.Error()
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "deps": deps})
}
