package post

import (
	"net/http"

	"github.com/huydotcode/handbook-server-sub001/internal/api/handlers"
	"github.com/huydotcode/handbook-server-sub001/internal/api/middleware"
)

// HandleGet handles GET /api/v1/posts/{postID}
// Posts the viewer may not see are reported as not found.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	postID, err := handlers.URLParamUUID(r, "postID")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	post, err := h.service.GetPost(r.Context(), middleware.GetUserID(r), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, post)
}
