package handlers

import (
	"net/http"

	"github.com/phodsawiR/MedGuideApp2/internal/server/response"
)

// HandleHealth handles GET /health (liveness probe).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "medguide-api",
		"version": "v1",
	})
}

// HandleReady handles GET /api/v1/ready. The server is ready once the
// identity handshake has completed and the engine is serving.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	if _, err := h.engine.Identity(); err != nil {
		response.ServiceUnavailable(w, "Engine has not completed startup")
		return
	}

	response.OK(w, map[string]any{
		"status": "ready",
		"topics": len(h.engine.AllTopics()),
		"cache": map[string]any{
			"items": h.cache.ItemCount(),
		},
		"websocket_clients": h.wsHub.ClientCount(),
		"sse_clients":       h.sseBroadcaster.ClientCount(),
	})
}
