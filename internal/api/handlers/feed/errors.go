package feed

import (
	"log/slog"
	"net/http"

	"github.com/huydotcode/handbook-server-sub001/internal/api/handlers"
)

// handleServiceError maps feed service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	if handlers.WriteCommonError(w, err) {
		return
	}
	slog.Error("feed service error", slog.String("error", err.Error()))
	handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An error occurred while fetching the feed")
}
