// Package health contiene el controller para health checks.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/comanda/internal/http/helpers"
	"github.com/dropDatabas3/comanda/internal/observability/logger"
)

// Checker es un componente que sabe responder un ping.
type Checker func(ctx context.Context) error

// HealthResponse es el cuerpo de GET /healthz.
type HealthResponse struct {
	Status     string            `json:"status"` // ready | degraded | unavailable
	Components map[string]string `json:"components"`
	Timestamp  time.Time         `json:"timestamp"`
}

// HealthController maneja /healthz.
type HealthController struct {
	store Checker
	cache Checker
}

// NewHealthController crea el controller. El store es crítico; el cache no,
// porque ante su caída las lecturas van al store.
func NewHealthController(store, cache Checker) *HealthController {
	return &HealthController{store: store, cache: cache}
}

// Healthz maneja GET /healthz
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("HealthController.Healthz"))

	resp := HealthResponse{
		Status:     "ready",
		Components: map[string]string{"store": "ok", "cache": "ok"},
		Timestamp:  time.Now().UTC(),
	}
	status := http.StatusOK

	if c.cache != nil {
		if err := c.cache(ctx); err != nil {
			log.Warn("cache unhealthy", logger.Err(err))
			resp.Components["cache"] = "error"
			resp.Status = "degraded"
		}
	}
	if c.store != nil {
		if err := c.store(ctx); err != nil {
			log.Error("store unhealthy", logger.Err(err))
			resp.Components["store"] = "error"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	helpers.WriteJSON(w, status, resp)
}
