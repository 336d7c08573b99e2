// Package kitchen contiene el controller de comandas de cocina, incluido el stream
// en vivo por Server-Sent Events.
package kitchen

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	httperrors "github.com/dropDatabas3/comanda/internal/http/errors"
	"github.com/dropDatabas3/comanda/internal/http/helpers"
	"github.com/dropDatabas3/comanda/internal/kot"
	"github.com/dropDatabas3/comanda/internal/observability/logger"
)

// DefaultHeartbeat es el intervalo de los comentarios keep-alive del stream.
const DefaultHeartbeat = 25 * time.Second

// KotController maneja /api/v1/kot.
type KotController struct {
	kot       *kot.Distributor
	heartbeat time.Duration
}

// NewKotController crea el controller. heartbeat <= 0 usa DefaultHeartbeat.
func NewKotController(d *kot.Distributor, heartbeat time.Duration) *KotController {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &KotController{kot: d, heartbeat: heartbeat}
}

// Pending maneja GET /api/v1/kot/pending
func (c *KotController) Pending(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Pending KOT items", nonNil(c.kot.GetAllPending(r.Context(), tenant)))
}

// Completed maneja GET /api/v1/kot/completed
func (c *KotController) Completed(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Completed KOT items", nonNil(c.kot.GetAllCompleted(r.Context(), tenant)))
}

// MarkCompleted maneja POST /api/v1/kot/orders/{id}/complete. Sólo toca las
// comandas; la orden sigue abierta.
func (c *KotController) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	id, err := helpers.PathInt64(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	c.kot.MarkCompletedByOrder(r.Context(), tenant, id)
	helpers.WriteSuccess(w, http.StatusOK, "KOT items completed", nil)
}

// Stream maneja GET /api/v1/kot/stream. Cada snapshot de pendientes sale como
// un frame "data:"; un cliente que llega tarde recibe primero el último.
func (c *KotController) Stream(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("KotController.Stream"))

	rc := http.NewResponseController(w)
	// El stream vive más que el WriteTimeout del server.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		log.Warn("streaming unsupported", logger.Err(err))
		return
	}

	snaps := c.kot.Stream(ctx, tenant)
	hb := time.NewTicker(c.heartbeat)
	defer hb.Stop()

	log.Debug("kot stream attached")
	for {
		select {
		case snap, open := <-snaps:
			if !open {
				log.Debug("kot stream detached")
				return
			}
			payload, err := json.Marshal(nonNil(snap))
			if err != nil {
				log.Error("encode kot snapshot", logger.Err(err))
				return
			}
			if _, err := fmt.Fprintf(w, "event: kot\ndata: %s\n\n", payload); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		case <-hb.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func nonNil(ts []kot.Ticket) []kot.Ticket {
	if ts == nil {
		return []kot.Ticket{}
	}
	return ts
}
