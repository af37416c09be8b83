package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/inventory_api/internal/utils"
)

var startTime = time.Now()

// Pinger checks that the store is reachable. *sqlx.DB implements it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// GetHealth responds with service and store status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Health check: store unreachable")
		utils.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Store unavailable")
		return
	}

	utils.Success(c, http.StatusOK, "Service is healthy", gin.H{
		"status": "healthy",
		"uptime": int(time.Since(startTime).Seconds()),
		"store":  "connected",
	})
}
