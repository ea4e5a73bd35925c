package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huydotcode/handbook-server-sub001/internal/api/middleware"
	"github.com/huydotcode/handbook-server-sub001/internal/core/feeds"
	"github.com/huydotcode/handbook-server-sub001/internal/core/interactions"
	"github.com/huydotcode/handbook-server-sub001/internal/core/pagination"
	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

// fakeFeedService records the last call and returns a fixed page
type fakeFeedService struct {
	err      error
	method   string
	viewer   uuid.UUID
	target   uuid.UUID
	status   posts.Status
	page     int
	pageSize int
}

func (f *fakeFeedService) result() (*feeds.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	post := &posts.Post{ID: uuid.New(), Text: "hello", Option: posts.OptionPublic, Status: posts.StatusActive}
	data := []*interactions.PostWithInteraction{{Post: post, UserHasLoved: true}}
	return pagination.NewResult(data, pagination.Params{Page: f.page, PageSize: f.pageSize}, 1), nil
}

func (f *fakeFeedService) record(method string, viewer uuid.UUID, page, pageSize int) (*feeds.Page, error) {
	f.method, f.viewer, f.page, f.pageSize = method, viewer, page, pageSize
	if viewer == uuid.Nil && method != "profile" {
		return nil, posts.ErrUnauthorized
	}
	return f.result()
}

func (f *fakeFeedService) GetNewFeedPosts(ctx context.Context, userID uuid.UUID, page, pageSize int) (*feeds.Page, error) {
	return f.record("new", userID, page, pageSize)
}

func (f *fakeFeedService) GetNewFeedFriendPosts(ctx context.Context, userID uuid.UUID, page, pageSize int) (*feeds.Page, error) {
	return f.record("friends", userID, page, pageSize)
}

func (f *fakeFeedService) GetNewFeedGroupPosts(ctx context.Context, userID uuid.UUID, page, pageSize int) (*feeds.Page, error) {
	return f.record("groups", userID, page, pageSize)
}

func (f *fakeFeedService) GetSavedPosts(ctx context.Context, userID uuid.UUID, page, pageSize int) (*feeds.Page, error) {
	return f.record("saved", userID, page, pageSize)
}

func (f *fakeFeedService) GetProfilePosts(ctx context.Context, viewerID, authorID uuid.UUID, page, pageSize int) (*feeds.Page, error) {
	f.target = authorID
	return f.record("profile", viewerID, page, pageSize)
}

func (f *fakeFeedService) GetGroupManagePosts(ctx context.Context, viewerID, groupID uuid.UUID, status posts.Status, page, pageSize int) (*feeds.Page, error) {
	f.target, f.status = groupID, status
	return f.record("manage", viewerID, page, pageSize)
}

func (f *fakeFeedService) GetPostsWithInteraction(ctx context.Context, filter posts.Filter, userID uuid.UUID, page, pageSize int) (*feeds.Page, error) {
	return f.record("filter", userID, page, pageSize)
}

func newRouter(svc feeds.Service) http.Handler {
	h := NewHandler(svc, feeds.Config{DefaultPageSize: 10, MaxPageSize: 50})
	r := chi.NewRouter()
	r.Get("/feeds/new", h.HandleNewFeed)
	r.Get("/feeds/friends", h.HandleFriendFeed)
	r.Get("/feeds/groups", h.HandleGroupFeed)
	r.Get("/feeds/saved", h.HandleSavedFeed)
	r.Get("/users/{userID}/posts", h.HandleProfileFeed)
	r.Get("/groups/{groupID}/posts", h.HandleGroupManageFeed)
	return r
}

func do(t *testing.T, h http.Handler, target string, viewer uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if viewer != uuid.Nil {
		req = req.WithContext(middleware.SetTestUserID(req.Context(), viewer))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestViewerFeeds(t *testing.T) {
	viewer := uuid.New()

	for path, method := range map[string]string{
		"/feeds/new":     "new",
		"/feeds/friends": "friends",
		"/feeds/groups":  "groups",
		"/feeds/saved":   "saved",
	} {
		t.Run(method, func(t *testing.T) {
			svc := &fakeFeedService{}
			w := do(t, newRouter(svc), path+"?page=2&pageSize=5", viewer)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, method, svc.method)
			assert.Equal(t, viewer, svc.viewer)
			assert.Equal(t, 2, svc.page)
			assert.Equal(t, 5, svc.pageSize)

			var body struct {
				Data []struct {
					ID           uuid.UUID `json:"id"`
					UserHasLoved bool      `json:"userHasLoved"`
				} `json:"data"`
				Pagination pagination.Info `json:"pagination"`
			}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			require.Len(t, body.Data, 1)
			assert.True(t, body.Data[0].UserHasLoved)
			assert.Equal(t, 2, body.Pagination.Page)
			assert.True(t, body.Pagination.HasPrev)
		})
	}
}

func TestViewerFeeds_Anonymous(t *testing.T) {
	w := do(t, newRouter(&fakeFeedService{}), "/feeds/new", uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestViewerFeeds_PaginationIsClamped(t *testing.T) {
	tests := []struct {
		query        string
		wantPage     int
		wantPageSize int
	}{
		{query: "", wantPage: 1, wantPageSize: 10},
		{query: "?page=abc&pageSize=xyz", wantPage: 1, wantPageSize: 10},
		{query: "?page=-3&pageSize=0", wantPage: 1, wantPageSize: 1},
		{query: "?page=4&pageSize=500", wantPage: 4, wantPageSize: 50},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			svc := &fakeFeedService{}
			w := do(t, newRouter(svc), "/feeds/friends"+tt.query, uuid.New())

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantPage, svc.page)
			assert.Equal(t, tt.wantPageSize, svc.pageSize)
		})
	}
}

func TestProfileFeed(t *testing.T) {
	author := uuid.New()
	svc := &fakeFeedService{}

	w := do(t, newRouter(svc), "/users/"+author.String()+"/posts", uuid.Nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, author, svc.target)
	assert.Equal(t, uuid.Nil, svc.viewer)

	w = do(t, newRouter(svc), "/users/not-an-id/posts", uuid.Nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGroupManageFeed(t *testing.T) {
	groupID := uuid.New()
	svc := &fakeFeedService{}

	w := do(t, newRouter(svc), "/groups/"+groupID.String()+"/posts?status=pending", uuid.New())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, groupID, svc.target)
	assert.Equal(t, posts.StatusPending, svc.status)
}

func TestFeedErrors(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want int
	}{
		{name: "not member", err: posts.ErrNotGroupMember, want: http.StatusForbidden},
		{name: "validation", err: posts.NewValidationError("status", "bad"), want: http.StatusBadRequest},
		{name: "internal", err: errors.New("db down"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeFeedService{err: tt.err}
			w := do(t, newRouter(svc), "/feeds/new", uuid.New())
			assert.Equal(t, tt.want, w.Code)
			assert.NotContains(t, w.Body.String(), "db down")
		})
	}
}
