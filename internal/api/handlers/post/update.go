package post

import (
	"net/http"

	"github.com/huydotcode/handbook-server-sub001/internal/api/handlers"
	"github.com/huydotcode/handbook-server-sub001/internal/api/middleware"
	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

// UpdateStatusInput is the body of PUT /api/v1/posts/{postID}/status
type UpdateStatusInput struct {
	Status posts.Status `json:"status"`
}

// HandleUpdate handles PATCH /api/v1/posts/{postID}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	postID, err := handlers.URLParamUUID(r, "postID")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var req posts.UpdatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := h.service.UpdatePost(r.Context(), middleware.GetUserID(r), postID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, post)
}

// HandleUpdateStatus handles PUT /api/v1/posts/{postID}/status
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	postID, err := handlers.URLParamUUID(r, "postID")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var input UpdateStatusInput
	if !decodeBody(w, r, &input) {
		return
	}

	if err := h.service.UpdateStatus(r.Context(), middleware.GetUserID(r), postID, input.Status); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
