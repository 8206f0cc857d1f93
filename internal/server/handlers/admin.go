package handlers

import (
	"net/http"
	"runtime"

	"github.com/phodsawiR/MedGuideApp2/internal/server/events"
	"github.com/phodsawiR/MedGuideApp2/internal/server/response"
)

// HandleSync handles POST /api/v1/sync. It runs an on-demand
// reconciliation pass against the seed catalog.
func (h *Handlers) HandleSync(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.Reconcile(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	h.cache.Clear()
	h.broker.Publish(events.SyncCompleted, map[string]any{
		"removed": result.Removed,
		"seeded":  result.Seeded,
	})

	response.OK(w, map[string]any{
		"status":  "completed",
		"changed": result.Changed(),
		"removed": result.Removed,
		"seeded":  result.Seeded,
	})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, _ *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	topics := h.engine.AllTopics()

	response.OK(w, map[string]any{
		"runtime": map[string]any{
			"goroutines":    runtime.NumGoroutine(),
			"memory_mb":     memStats.Alloc / 1024 / 1024,
			"memory_sys_mb": memStats.Sys / 1024 / 1024,
		},
		"catalog": map[string]any{
			"topics_total":  len(topics),
			"systems_total": len(topics.Systems()),
			"seed_total":    len(h.engine.Seed()),
		},
		"events": map[string]any{
			"published_total": h.broker.EventsPublished(),
			"dropped_total":   h.broker.EventsDropped(),
			"queue_depth":     h.broker.QueueDepth(),
		},
		"realtime": map[string]any{
			"websocket_clients": h.wsHub.ClientCount(),
			"sse_clients":       h.sseBroadcaster.ClientCount(),
		},
		"cache": h.cache.GetStats(),
	})
}
