package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

// ErrorResponse is the JSON body of every error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a standardized JSON error response
func WriteError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errorType,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", slog.String("error", err.Error()))
	}
}

// WriteJSON writes v as a JSON response with the given status
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers already sent; log only
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// WriteCommonError maps the shared error taxonomy to HTTP responses and
// reports whether it handled err. Callers fall back to a 500 otherwise.
func WriteCommonError(w http.ResponseWriter, err error) bool {
	switch {
	case posts.IsValidationError(err):
		WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	case posts.IsNotFound(err):
		WriteError(w, http.StatusNotFound, "NotFound", err.Error())
	case errors.Is(err, posts.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "AuthenticationRequired", "User must be authenticated")
	case errors.Is(err, posts.ErrForbidden):
		WriteError(w, http.StatusForbidden, "NotAuthorized", err.Error())
	case errors.Is(err, posts.ErrNotGroupMember):
		WriteError(w, http.StatusForbidden, "NotGroupMember", err.Error())
	default:
		return false
	}
	return true
}
