package post

import (
	"net/http"

	"github.com/huydotcode/handbook-server-sub001/internal/api/handlers"
	"github.com/huydotcode/handbook-server-sub001/internal/api/middleware"
	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

// HandleCreate handles POST /api/v1/posts
// Group posts are created pending and appear in the group-manage feed.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req posts.CreatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := h.service.CreatePost(r.Context(), middleware.GetUserID(r), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, post)
}
