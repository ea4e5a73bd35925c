package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/huydotcode/handbook-server-sub001/internal/api/middleware"
	"github.com/huydotcode/handbook-server-sub001/internal/core/feeds"
	"github.com/huydotcode/handbook-server-sub001/internal/core/interactions"
	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

// Services bundles the domain services exposed over HTTP
type Services struct {
	Feeds        feeds.Service
	Posts        posts.Service
	Interactions interactions.Service
	FeedConfig   feeds.Config
}

// APIRoutes returns the /api/v1 router
func APIRoutes(svc Services, authMiddleware *middleware.AuthMiddleware) chi.Router {
	r := chi.NewRouter()
	RegisterFeedRoutes(r, svc.Feeds, svc.FeedConfig, authMiddleware)
	RegisterPostRoutes(r, svc.Posts, authMiddleware)
	RegisterInteractionRoutes(r, svc.Interactions, authMiddleware)
	return r
}

// CORS builds the cross-origin middleware for browser clients.
// An empty origin list disables CORS headers entirely.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
