package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/caddieai/caddie/internal/response"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	err := h.db.PingContext(ctx)
	if err != nil {
		slog.Error("health check failed", "error", err)
		response.Error(w, http.StatusServiceUnavailable, response.CodeServiceUnavailable, "database unavailable")
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}
