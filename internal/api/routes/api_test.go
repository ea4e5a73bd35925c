package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huydotcode/handbook-server-sub001/internal/api/middleware"
	"github.com/huydotcode/handbook-server-sub001/internal/core/feeds"
	"github.com/huydotcode/handbook-server-sub001/internal/core/interactions"
	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
	"github.com/huydotcode/handbook-server-sub001/internal/db/memory"
)

const testSecret = "routes-test-secret"

type feedResponse struct {
	Data       []interactions.PostWithInteraction `json:"data"`
	Pagination struct {
		Total int `json:"total"`
	} `json:"pagination"`
}

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	store := memory.NewStore()
	require.NoError(t, memory.Seed(context.Background(), store))

	postRepo := memory.NewPostRepository(store)
	graph := memory.NewSocialGraphRepository(store)
	interactionService := interactions.NewInteractionService(memory.NewInteractionRepository(store))
	feedCfg := feeds.DefaultConfig()

	svc := Services{
		Feeds:        feeds.NewFeedService(postRepo, graph, interactionService, feedCfg),
		Posts:        posts.NewPostService(postRepo, graph),
		Interactions: interactionService,
		FeedConfig:   feedCfg,
	}
	return APIRoutes(svc, middleware.NewAuthMiddleware(testSecret, false))
}

func call(t *testing.T, h http.Handler, method, target string, user uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if user != uuid.Nil {
		token, err := middleware.SignToken(testSecret, user, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeFeed(t *testing.T, w *httptest.ResponseRecorder) feedResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp feedResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestFeedRoutes_RequireAuth(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/feeds/new", "/feeds/friends", "/feeds/groups", "/feeds/saved"} {
		w := call(t, api, http.MethodGet, path, uuid.Nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestToggleThenFeedReflectsInteraction(t *testing.T) {
	api := newTestAPI(t)

	// Bob is Alice's friend: he sees her public and friend-only posts
	feed := decodeFeed(t, call(t, api, http.MethodGet, "/feeds/new", memory.SeedBobID))
	require.Equal(t, 2, feed.Pagination.Total)
	target := feed.Data[0]
	assert.False(t, target.UserHasLoved)

	w := call(t, api, http.MethodPost, "/posts/"+target.ID.String()+"/interactions/love", memory.SeedBobID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"action":"added"`)

	feed = decodeFeed(t, call(t, api, http.MethodGet, "/feeds/new", memory.SeedBobID))
	require.Equal(t, target.ID, feed.Data[0].ID)
	assert.True(t, feed.Data[0].UserHasLoved)
	assert.Equal(t, 1, feed.Data[0].LovesCount)

	w = call(t, api, http.MethodGet, "/posts/"+target.ID.String()+"/interactions/love", memory.SeedBobID)
	assert.JSONEq(t, `{"type":"love","interacted":true}`, w.Body.String())

	w = call(t, api, http.MethodPost, "/posts/"+target.ID.String()+"/interactions/love", memory.SeedBobID)
	assert.Contains(t, w.Body.String(), `"action":"removed"`)

	feed = decodeFeed(t, call(t, api, http.MethodGet, "/feeds/new", memory.SeedBobID))
	assert.False(t, feed.Data[0].UserHasLoved)
	assert.Equal(t, 0, feed.Data[0].LovesCount)
}

func TestProfileFeed_OptionalAuth(t *testing.T) {
	api := newTestAPI(t)
	path := "/users/" + memory.SeedAliceID.String() + "/posts"

	anon := decodeFeed(t, call(t, api, http.MethodGet, path, uuid.Nil))
	assert.Equal(t, 1, anon.Pagination.Total)

	friend := decodeFeed(t, call(t, api, http.MethodGet, path, memory.SeedBobID))
	assert.Equal(t, 2, friend.Pagination.Total)

	self := decodeFeed(t, call(t, api, http.MethodGet, path, memory.SeedAliceID))
	assert.Equal(t, 3, self.Pagination.Total)

	for _, query := range []string{"?page=4611686018427387905&pageSize=2", "?page=4611686018427387905&pageSize=4"} {
		huge := decodeFeed(t, call(t, api, http.MethodGet, path+query, uuid.Nil))
		assert.Empty(t, huge.Data, query)
		assert.Equal(t, 1, huge.Pagination.Total, query)
	}
}

func TestGroupManageFeed(t *testing.T) {
	api := newTestAPI(t)
	path := "/groups/" + memory.SeedGroupID.String() + "/posts?status=pending"

	pending := decodeFeed(t, call(t, api, http.MethodGet, path, memory.SeedCarolID))
	assert.Equal(t, 1, pending.Pagination.Total)

	w := call(t, api, http.MethodGet, path, memory.SeedBobID)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://handbook.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/feeds/new", nil)
	req.Header.Set("Origin", "https://handbook.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "https://handbook.example", w.Header().Get("Access-Control-Allow-Origin"))

	passthrough := CORS(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	w = httptest.NewRecorder()
	passthrough.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
