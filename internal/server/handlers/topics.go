package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/phodsawiR/MedGuideApp2/internal/server/response"
	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
	"github.com/phodsawiR/MedGuideApp2/pkg/errors"
	"github.com/phodsawiR/MedGuideApp2/pkg/logging"
	"github.com/phodsawiR/MedGuideApp2/pkg/view"
)

// HandleListTopics handles GET /api/v1/topics.
// Query parameters: system, min_yield, q.
func (h *Handlers) HandleListTopics(w http.ResponseWriter, r *http.Request) {
	filter := view.Filter{System: view.AllSystems, MinYield: 1}
	if system := r.URL.Query().Get("system"); system != "" {
		filter.System = system
	}
	if raw := r.URL.Query().Get("min_yield"); raw != "" {
		minYield, err := strconv.Atoi(raw)
		if err != nil || minYield < 1 || minYield > 5 {
			response.BadRequest(w, "Invalid min_yield", "min_yield must be an integer between 1 and 5")
			return
		}
		filter.MinYield = minYield
	}
	filter.Query = r.URL.Query().Get("q")

	cacheKey := "topics:" + r.URL.RawQuery
	if cached, ok := h.cache.Get(cacheKey); ok {
		response.OK(w, cached)
		return
	}

	topics := filter.Apply(h.engine.AllTopics())
	payload := map[string]any{
		"topics": topics,
		"count":  len(topics),
	}
	h.cache.Set(cacheKey, payload)
	response.OK(w, payload)
}

// HandleGetTopic handles GET /api/v1/topics/{id}.
func (h *Handlers) HandleGetTopic(w http.ResponseWriter, _ *http.Request, id string) {
	for _, topic := range h.engine.AllTopics() {
		if topic.ID == id {
			response.OK(w, topic)
			return
		}
	}
	response.FromError(w, errors.NewNotFoundError("topic", id))
}

// HandleListSystems handles GET /api/v1/systems.
func (h *Handlers) HandleListSystems(w http.ResponseWriter, _ *http.Request) {
	systems := h.engine.Systems()
	response.OK(w, map[string]any{
		"systems": systems,
		"count":   len(systems),
	})
}

// HandleCreateTopic handles POST /api/v1/topics.
func (h *Handlers) HandleCreateTopic(w http.ResponseWriter, r *http.Request) {
	var topic catalogs.Topic
	if err := json.NewDecoder(r.Body).Decode(&topic); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}
	if err := validateTopic(&topic); err != nil {
		response.FromError(w, err)
		return
	}

	topic.ID = ""
	id, err := h.engine.Store().CreateDoc(r.Context(), h.engine.Collection(), topic)
	if err != nil {
		response.FromError(w, err)
		return
	}
	topic.ID = id

	h.cache.Clear()
	logging.FromContext(r.Context()).Info().Str("id", id).Str("title", topic.Title).Msg("Topic created")
	response.Created(w, topic)
}

// HandleUpdateTopic handles PUT /api/v1/topics/{id}.
func (h *Handlers) HandleUpdateTopic(w http.ResponseWriter, r *http.Request, id string) {
	var topic catalogs.Topic
	if err := json.NewDecoder(r.Body).Decode(&topic); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}
	if err := validateTopic(&topic); err != nil {
		response.FromError(w, err)
		return
	}

	topic.ID = id
	if err := h.engine.Store().UpdateDoc(r.Context(), h.engine.Collection(), id, topic); err != nil {
		response.FromError(w, err)
		return
	}

	h.cache.Clear()
	logging.FromContext(r.Context()).Info().Str("id", id).Msg("Topic updated")
	response.OK(w, topic)
}

// HandleDeleteTopic handles DELETE /api/v1/topics/{id}.
func (h *Handlers) HandleDeleteTopic(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.engine.Store().DeleteDoc(r.Context(), h.engine.Collection(), id); err != nil {
		response.FromError(w, err)
		return
	}

	h.cache.Clear()
	logging.FromContext(r.Context()).Info().Str("id", id).Msg("Topic deleted")
	response.OK(w, map[string]any{"deleted": id})
}

// validateTopic checks the fields a topic must carry before it enters
// the collection.
func validateTopic(t *catalogs.Topic) error {
	if !t.Identified() {
		return errors.NewValidationError("system/topic", nil, "system and topic are required")
	}
	if t.YieldScore < 1 || t.YieldScore > 5 {
		return errors.NewValidationError("yield_score", t.YieldScore, "yield_score must be between 1 and 5")
	}
	return nil
}
