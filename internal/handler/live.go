package handler

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/caddieai/caddie/internal/live"
	"github.com/gorilla/websocket"
)

type LiveHandler struct {
	hub      *live.Hub
	upgrader websocket.Upgrader
}

// NewLiveHandler accepts handshakes from native apps (no Origin header) and
// from the configured browser origins.
func NewLiveHandler(hub *live.Hub, allowedOrigins []string) *LiveHandler {
	return &LiveHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

func (h *LiveHandler) Connect(w http.ResponseWriter, r *http.Request) {
	id := userID(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		slog.Warn("websocket upgrade failed", "error", err, "user_id", id)
		return
	}

	h.hub.Serve(id, conn)
}
