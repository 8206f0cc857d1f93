package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/phodsawiR/MedGuideApp2/internal/server/response"
	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
	"github.com/phodsawiR/MedGuideApp2/pkg/store"
)

// HandleExport handles GET /api/v1/export. It returns the full
// collection as a JSON document suitable for re-import.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	topics, err := h.engine.Store().SnapshotAll(r.Context(), h.engine.Collection())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"topics": topics,
		"count":  len(topics),
	})
}

// HandleImport handles POST /api/v1/import. The body carries a topics
// array; valid records are inserted in one atomic batch and the next
// reconciliation pass folds duplicates back out.
func (h *Handlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Topics catalogs.Topics `json:"topics"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}
	if len(payload.Topics) == 0 {
		response.BadRequest(w, "No topics to import", "the topics array is empty")
		return
	}

	creates := make(catalogs.Topics, 0, len(payload.Topics))
	skipped := 0
	for i := range payload.Topics {
		if err := validateTopic(&payload.Topics[i]); err != nil {
			skipped++
			continue
		}
		topic := payload.Topics[i]
		topic.ID = ""
		creates = append(creates, topic)
	}
	if len(creates) == 0 {
		response.BadRequest(w, "No valid topics to import", "every record failed validation")
		return
	}

	batch := store.Batch{Creates: creates}
	if err := h.engine.Store().CommitBatch(r.Context(), h.engine.Collection(), batch); err != nil {
		response.FromError(w, err)
		return
	}

	h.cache.Clear()
	h.logger.Info().
		Int("imported", len(creates)).
		Int("skipped", skipped).
		Msg("Topics imported")
	response.OK(w, map[string]any{
		"imported": len(creates),
		"skipped":  skipped,
	})
}
