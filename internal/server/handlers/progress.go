package handlers

import (
	"net/http"

	"github.com/phodsawiR/MedGuideApp2/internal/server/response"
)

// HandleToggleProgress handles POST /api/v1/progress/{id}/toggle.
// It flips the reviewed flag for a record under the server session's
// identity and returns the new value.
func (h *Handlers) HandleToggleProgress(w http.ResponseWriter, r *http.Request, id string) {
	reviewed, err := h.engine.ToggleReviewed(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"id":       id,
		"reviewed": reviewed,
	})
}

// HandleGetProgress handles GET /api/v1/progress. It returns the
// presented topic list annotated with the session's review progress.
func (h *Handlers) HandleGetProgress(w http.ResponseWriter, _ *http.Request) {
	if _, err := h.engine.Identity(); err != nil {
		response.FromError(w, err)
		return
	}

	topics := h.engine.Topics()
	reviewed := 0
	for _, topic := range topics {
		if topic.Reviewed {
			reviewed++
		}
	}

	response.OK(w, map[string]any{
		"topics":   topics,
		"count":    len(topics),
		"reviewed": reviewed,
	})
}
