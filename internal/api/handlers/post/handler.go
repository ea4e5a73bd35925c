package post

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/huydotcode/handbook-server-sub001/internal/api/handlers"
	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

// maxBodyBytes bounds request bodies; media are references, not uploads
const maxBodyBytes = 1 << 20

// Handler serves post CRUD and moderation endpoints
type Handler struct {
	service posts.Service
}

// NewHandler creates a new post handler
func NewHandler(service posts.Service) *Handler {
	return &Handler{service: service}
}

// decodeBody decodes a size-limited JSON body into v, writing the error
// response itself when it fails
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.WriteError(w, http.StatusRequestEntityTooLarge, "RequestTooLarge", "Request body too large (max 1MB)")
			return false
		}
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return false
	}
	return true
}
