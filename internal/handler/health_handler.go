package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/salvadorklaude/powerhouse-store/pkg/database"
	"github.com/salvadorklaude/powerhouse-store/pkg/redis"
)

// HealthHandler handles liveness and readiness probes
type HealthHandler struct {
	db      *database.PostgresDB
	redis   *redis.Client
	service string
	started time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *database.PostgresDB, rdb *redis.Client, service string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		redis:   rdb,
		service: service,
		started: time.Now(),
	}
}

// Health handles GET /health. Liveness only, no dependency checks.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.service,
		"uptime":  time.Since(h.started).String(),
	})
}

// Ready handles GET /ready. Checks database and cache connectivity.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()
	checks := gin.H{}
	status := http.StatusOK

	if err := h.db.HealthCheck(ctx); err != nil {
		checks["database"] = "unhealthy"
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "healthy"
	}

	if err := h.redis.HealthCheck(ctx); err != nil {
		checks["redis"] = "unhealthy"
		status = http.StatusServiceUnavailable
	} else {
		checks["redis"] = "healthy"
	}

	body := gin.H{
		"status":  "ready",
		"service": h.service,
		"checks":  checks,
	}
	if status != http.StatusOK {
		body["status"] = "not ready"
	}
	c.JSON(status, body)
}
