// Package health contiene el controller para health checks.
package health

import (
	"context"
	"net/http"
	"time"

	dto "github.com/dropDatabas3/profilegate/internal/http/dto/health"
	"github.com/dropDatabas3/profilegate/internal/http/helpers"
	"github.com/dropDatabas3/profilegate/internal/observability/logger"
)

// Pinger es el store (o cualquier dependencia) que readyz verifica.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController maneja GET /readyz.
type HealthController struct {
	store     Pinger
	storeName string
	timeout   time.Duration
}

func NewHealthController(store Pinger, storeName string) *HealthController {
	return &HealthController{store: store, storeName: storeName, timeout: 2 * time.Second}
}

// Readyz maneja GET /readyz. 200 si el store responde, 503 si no.
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	resp := dto.HealthResponse{Status: "ready", Store: c.storeName}
	status := http.StatusOK

	if c.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
		defer cancel()
		if err := c.store.Ping(ctx); err != nil {
			logger.From(r.Context()).Warn("readiness check failed",
				logger.Layer("controller"),
				logger.Op("HealthController.Readyz"),
				logger.Err(err),
			)
			resp.Status = "unavailable"
			resp.Error = "store unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, status, resp)
}
