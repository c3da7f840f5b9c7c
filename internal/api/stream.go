package api

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/talgya/macrosim/internal/metrics"
)

// maxStreamConns bounds concurrent websocket subscribers.
const maxStreamConns = 16

// Hub fans each tick's snapshot out to websocket subscribers.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

// NewHub creates an empty snapshot hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Observation stream; origin filtering happens upstream.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]bool),
	}
}

// HandleWS upgrades the request and registers the connection until it
// drops. Clients only receive; inbound messages are discarded.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if len(h.conns) >= maxStreamConns {
		h.mu.Unlock()
		http.Error(w, "too many stream connections", http.StatusServiceUnavailable)
		return
	}
	h.mu.Unlock()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()
	slog.Info("stream client connected", "remote", conn.RemoteAddr())

	// Drain the read side so control frames are processed.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends a snapshot to every subscriber, dropping any that fail.
func (h *Hub) Broadcast(snap metrics.Snapshot) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteJSON(snap); err != nil {
			h.drop(c)
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if h.conns[conn] {
		delete(h.conns, conn)
		conn.Close()
	}
	h.mu.Unlock()
}
