package interaction

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/huydotcode/handbook-server-sub001/internal/api/handlers"
	"github.com/huydotcode/handbook-server-sub001/internal/api/middleware"
	"github.com/huydotcode/handbook-server-sub001/internal/core/interactions"
)

// Handler serves the interaction toggle and lookup endpoints
type Handler struct {
	service interactions.Service
}

// NewHandler creates a new interaction handler
func NewHandler(service interactions.Service) *Handler {
	return &Handler{service: service}
}

// StatusResponse is the body of the has-interacted lookup
type StatusResponse struct {
	Type       interactions.Type `json:"type"`
	Interacted bool              `json:"interacted"`
}

// HandleToggle handles POST /api/v1/posts/{postID}/interactions/{type}
//
// The first call records the interaction and the next removes it.
// Response: { "action": "added" | "removed", "interaction": {...}? }
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	postID, t, ok := parsePath(w, r)
	if !ok {
		return
	}

	result, err := h.service.ToggleInteraction(r.Context(), postID, middleware.GetUserID(r), t)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}

// HandleStatus handles GET /api/v1/posts/{postID}/interactions/{type}
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	postID, t, ok := parsePath(w, r)
	if !ok {
		return
	}

	interacted, err := h.service.HasUserInteracted(r.Context(), postID, middleware.GetUserID(r), t)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, StatusResponse{Type: t, Interacted: interacted})
}

func parsePath(w http.ResponseWriter, r *http.Request) (uuid.UUID, interactions.Type, bool) {
	postID, err := handlers.URLParamUUID(r, "postID")
	if err != nil {
		handleServiceError(w, err)
		return uuid.Nil, "", false
	}

	t, err := interactions.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		handleServiceError(w, err)
		return uuid.Nil, "", false
	}

	return postID, t, true
}
