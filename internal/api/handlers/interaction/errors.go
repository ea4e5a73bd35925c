package interaction

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/huydotcode/handbook-server-sub001/internal/api/handlers"
	"github.com/huydotcode/handbook-server-sub001/internal/core/interactions"
)

// handleServiceError converts interaction service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	if handlers.WriteCommonError(w, err) {
		return
	}
	if errors.Is(err, interactions.ErrConcurrentToggle) {
		handlers.WriteError(w, http.StatusConflict, "ToggleConflict", "Interaction is being changed concurrently, try again")
		return
	}
	slog.Error("unexpected error in interaction handler", slog.String("error", err.Error()))
	handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
}
