package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/infrastructure/persistence"
)

// CartStorePinger is the slice of the cart store the health check needs
type CartStorePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports process and dependency health
type HealthHandler struct {
	db        *persistence.Database
	cartStore CartStorePinger
	version   string
}

// NewHealthHandler creates a new HealthHandler. cartStore may be nil
// when carts live in process memory.
func NewHealthHandler(db *persistence.Database, cartStore CartStorePinger, version string) *HealthHandler {
	return &HealthHandler{db: db, cartStore: cartStore, version: version}
}

// Check godoc
// @Summary      Health check
// @Description  Report service status and dependency reachability. Returns 503 when a dependency is down.
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]any
// @Failure      503 {object} map[string]any
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}

	if err := h.db.Ping(); err != nil {
		checks["database"] = "down"
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "up"
	}

	if h.cartStore != nil {
		if err := h.cartStore.Ping(ctx); err != nil {
			checks["cart_store"] = "down"
			status = http.StatusServiceUnavailable
		} else {
			checks["cart_store"] = "up"
		}
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status":  overall,
		"version": h.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
		"checks":  checks,
	})
}
