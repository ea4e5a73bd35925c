package post

import (
	"log/slog"
	"net/http"

	"github.com/huydotcode/handbook-server-sub001/internal/api/handlers"
)

// handleServiceError maps post service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	if handlers.WriteCommonError(w, err) {
		return
	}
	// Don't leak internal error details to clients
	slog.Error("unexpected error in post handler", slog.String("error", err.Error()))
	handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
}
