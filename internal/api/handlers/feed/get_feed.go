package feed

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/huydotcode/handbook-server-sub001/internal/api/handlers"
	"github.com/huydotcode/handbook-server-sub001/internal/api/middleware"
	"github.com/huydotcode/handbook-server-sub001/internal/core/feeds"
	"github.com/huydotcode/handbook-server-sub001/internal/core/pagination"
	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

// Handler serves the feed endpoints. Every response is a pagination
// envelope of annotated posts.
type Handler struct {
	service         feeds.Service
	defaultPageSize int
	maxPageSize     int
}

// NewHandler creates a new feed handler
func NewHandler(service feeds.Service, cfg feeds.Config) *Handler {
	return &Handler{
		service:         service,
		defaultPageSize: cfg.DefaultPageSize,
		maxPageSize:     cfg.MaxPageSize,
	}
}

type viewerFeed func(ctx context.Context, userID uuid.UUID, page, pageSize int) (*feeds.Page, error)

// HandleNewFeed handles GET /api/v1/feeds/new
func (h *Handler) HandleNewFeed(w http.ResponseWriter, r *http.Request) {
	h.serveViewerFeed(w, r, h.service.GetNewFeedPosts)
}

// HandleFriendFeed handles GET /api/v1/feeds/friends
func (h *Handler) HandleFriendFeed(w http.ResponseWriter, r *http.Request) {
	h.serveViewerFeed(w, r, h.service.GetNewFeedFriendPosts)
}

// HandleGroupFeed handles GET /api/v1/feeds/groups
func (h *Handler) HandleGroupFeed(w http.ResponseWriter, r *http.Request) {
	h.serveViewerFeed(w, r, h.service.GetNewFeedGroupPosts)
}

// HandleSavedFeed handles GET /api/v1/feeds/saved
func (h *Handler) HandleSavedFeed(w http.ResponseWriter, r *http.Request) {
	h.serveViewerFeed(w, r, h.service.GetSavedPosts)
}

// HandleProfileFeed handles GET /api/v1/users/{userID}/posts
// Authentication is optional; anonymous viewers only see public posts.
func (h *Handler) HandleProfileFeed(w http.ResponseWriter, r *http.Request) {
	authorID, err := handlers.URLParamUUID(r, "userID")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	params := h.pageParams(r)
	result, err := h.service.GetProfilePosts(r.Context(), middleware.GetUserID(r), authorID, params.Page, params.PageSize)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}

// HandleGroupManageFeed handles GET /api/v1/groups/{groupID}/posts?status=active|pending
func (h *Handler) HandleGroupManageFeed(w http.ResponseWriter, r *http.Request) {
	groupID, err := handlers.URLParamUUID(r, "groupID")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	status := posts.Status(r.URL.Query().Get("status"))
	params := h.pageParams(r)
	result, err := h.service.GetGroupManagePosts(r.Context(), middleware.GetUserID(r), groupID, status, params.Page, params.PageSize)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) serveViewerFeed(w http.ResponseWriter, r *http.Request, load viewerFeed) {
	// The service rejects uuid.Nil, so a missing RequireAuth surfaces as 401
	params := h.pageParams(r)
	result, err := load(r.Context(), middleware.GetUserID(r), params.Page, params.PageSize)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}

// pageParams reads page and pageSize; malformed values are clamped, never rejected
func (h *Handler) pageParams(r *http.Request) pagination.Params {
	q := r.URL.Query()
	return pagination.Normalize(q.Get("page"), q.Get("pageSize"), h.defaultPageSize, h.maxPageSize)
}
