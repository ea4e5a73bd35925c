package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/huydotcode/handbook-server-sub001/internal/api/handlers/post"
	"github.com/huydotcode/handbook-server-sub001/internal/api/middleware"
	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

// RegisterPostRoutes registers post CRUD and moderation endpoints
func RegisterPostRoutes(r chi.Router, service posts.Service, authMiddleware *middleware.AuthMiddleware) {
	h := post.NewHandler(service)

	r.With(authMiddleware.RequireAuth).Post("/posts", h.HandleCreate)
	r.With(authMiddleware.OptionalAuth).Get("/posts/{postID}", h.HandleGet)
	r.With(authMiddleware.RequireAuth).Patch("/posts/{postID}", h.HandleUpdate)
	r.With(authMiddleware.RequireAuth).Delete("/posts/{postID}", h.HandleDelete)
	r.With(authMiddleware.RequireAuth).Put("/posts/{postID}/status", h.HandleUpdateStatus)
}
