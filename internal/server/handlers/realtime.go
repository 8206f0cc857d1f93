package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/phodsawiR/MedGuideApp2/internal/server/events"
	ws "github.com/phodsawiR/MedGuideApp2/internal/server/websocket"
)

// HandleWebSocket handles WebSocket connections at
// /api/v1/updates/ws.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	clientID := fmt.Sprintf("%s-%d", r.RemoteAddr, time.Now().UnixNano())
	client := ws.NewClient(clientID, h.wsHub, conn)
	h.wsHub.Register(client)

	h.broker.Publish(events.ClientConnected, map[string]any{
		"client_id": clientID,
		"transport": "websocket",
	})

	go client.WritePump()
	go client.ReadPump()
}

// HandleSSE handles the event stream at /api/v1/updates/stream.
func (h *Handlers) HandleSSE(w http.ResponseWriter, r *http.Request) {
	h.sseBroadcaster.ServeHTTP(w, r)
}
