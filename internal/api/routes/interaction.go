package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/huydotcode/handbook-server-sub001/internal/api/handlers/interaction"
	"github.com/huydotcode/handbook-server-sub001/internal/api/middleware"
	"github.com/huydotcode/handbook-server-sub001/internal/core/interactions"
)

// RegisterInteractionRoutes registers the love/share/save endpoints
func RegisterInteractionRoutes(r chi.Router, service interactions.Service, authMiddleware *middleware.AuthMiddleware) {
	h := interaction.NewHandler(service)

	r.With(authMiddleware.RequireAuth).Post("/posts/{postID}/interactions/{type}", h.HandleToggle)
	r.With(authMiddleware.RequireAuth).Get("/posts/{postID}/interactions/{type}", h.HandleStatus)
}
