package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

// URLParamUUID reads a chi path parameter as a UUID. A malformed value is
// reported as a validation error on that field.
func URLParamUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, posts.NewValidationError(name, name+" must be a valid id")
	}
	return id, nil
}
