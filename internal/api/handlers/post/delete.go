package post

import (
	"net/http"

	"github.com/huydotcode/handbook-server-sub001/internal/api/handlers"
	"github.com/huydotcode/handbook-server-sub001/internal/api/middleware"
)

// HandleDelete handles DELETE /api/v1/posts/{postID}
// Only the author may delete; the post's interactions go with it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	postID, err := handlers.URLParamUUID(r, "postID")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.service.DeletePost(r.Context(), middleware.GetUserID(r), postID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
