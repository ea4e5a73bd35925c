package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/huydotcode/handbook-server-sub001/internal/api/handlers/feed"
	"github.com/huydotcode/handbook-server-sub001/internal/api/middleware"
	"github.com/huydotcode/handbook-server-sub001/internal/core/feeds"
)

// RegisterFeedRoutes registers the feed endpoints
func RegisterFeedRoutes(r chi.Router, service feeds.Service, cfg feeds.Config, authMiddleware *middleware.AuthMiddleware) {
	h := feed.NewHandler(service, cfg)

	r.With(authMiddleware.RequireAuth).Get("/feeds/new", h.HandleNewFeed)
	r.With(authMiddleware.RequireAuth).Get("/feeds/friends", h.HandleFriendFeed)
	r.With(authMiddleware.RequireAuth).Get("/feeds/groups", h.HandleGroupFeed)
	r.With(authMiddleware.RequireAuth).Get("/feeds/saved", h.HandleSavedFeed)

	// Anonymous viewers see the author's public posts only
	r.With(authMiddleware.OptionalAuth).Get("/users/{userID}/posts", h.HandleProfileFeed)

	// ?status=active|pending, members only
	r.With(authMiddleware.RequireAuth).Get("/groups/{groupID}/posts", h.HandleGroupManageFeed)
}
