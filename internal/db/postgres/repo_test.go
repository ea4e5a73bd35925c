package postgres

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huydotcode/handbook-server-sub001/internal/core/interactions"
	"github.com/huydotcode/handbook-server-sub001/internal/core/pagination"
	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
	"github.com/huydotcode/handbook-server-sub001/internal/db/migrations"
)

// setupTestDB connects to TEST_DATABASE_URL and runs migrations.
// Tests are skipped when no database is configured.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, migrations.Up(db), "Failed to run migrations")

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fixture tracks rows created by a test so they can be removed afterwards
type fixture struct {
	db     *sql.DB
	users  []uuid.UUID
	groups []uuid.UUID
	clock  time.Time
}

func newFixture(t *testing.T, db *sql.DB) *fixture {
	f := &fixture{db: db, clock: time.Now().UTC().Truncate(time.Microsecond)}
	t.Cleanup(func() { f.cleanup(t) })
	return f
}

func (f *fixture) cleanup(t *testing.T) {
	ids := uuidArray(f.users)
	_, err := f.db.Exec(`DELETE FROM post_interactions WHERE post_id IN (SELECT id FROM posts WHERE author_id = ANY($1::uuid[]))`, ids)
	require.NoError(t, err)
	_, err = f.db.Exec(`DELETE FROM posts WHERE author_id = ANY($1::uuid[])`, ids)
	require.NoError(t, err)
	_, err = f.db.Exec(`DELETE FROM groups WHERE id = ANY($1::uuid[])`, uuidArray(f.groups))
	require.NoError(t, err)
	_, err = f.db.Exec(`DELETE FROM users WHERE id = ANY($1::uuid[])`, ids)
	require.NoError(t, err)
}

func (f *fixture) user(t *testing.T, name string) uuid.UUID {
	id := uuid.New()
	_, err := f.db.Exec(`INSERT INTO users (id, name) VALUES ($1, $2)`, id, name)
	require.NoError(t, err, "Failed to create test user")
	f.users = append(f.users, id)
	return id
}

func (f *fixture) group(t *testing.T, name string, members ...uuid.UUID) uuid.UUID {
	id := uuid.New()
	_, err := f.db.Exec(`INSERT INTO groups (id, name) VALUES ($1, $2)`, id, name)
	require.NoError(t, err, "Failed to create test group")
	for _, m := range members {
		_, err := f.db.Exec(`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`, id, m)
		require.NoError(t, err)
	}
	f.groups = append(f.groups, id)
	return id
}

func (f *fixture) post(t *testing.T, repo posts.Repository, author uuid.UUID, option posts.Option, group *uuid.UUID) *posts.Post {
	f.clock = f.clock.Add(time.Second)
	p := &posts.Post{
		ID:        uuid.New(),
		AuthorID:  author,
		GroupID:   group,
		Text:      "hello",
		Option:    option,
		Status:    posts.StatusActive,
		Media:     []string{"a.png"},
		Tags:      []string{"go"},
		CreatedAt: f.clock,
		UpdatedAt: f.clock,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestPostRepo_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := f.user(t, "author")
	groupID := f.group(t, "readers", author)
	created := f.post(t, repo, author, posts.OptionFriend, &groupID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Text, got.Text)
	assert.Equal(t, []string{"a.png"}, got.Media)
	assert.Equal(t, posts.OptionFriend, got.Option)
	require.NotNil(t, got.Author)
	assert.Equal(t, "author", got.Author.Name)
	require.NotNil(t, got.Group)
	assert.Equal(t, "readers", got.Group.Name)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, posts.ErrNotFound)
}

func TestPostRepo_CreateUnknownAuthor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)

	err := repo.Create(context.Background(), &posts.Post{
		ID: uuid.New(), AuthorID: uuid.New(),
		Option: posts.OptionPublic, Status: posts.StatusActive,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	})
	assert.True(t, posts.IsNotFound(err))
}

func TestPostRepo_FindAppliesVisibility(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	viewer := f.user(t, "viewer")
	friend := f.user(t, "friend")
	other := f.user(t, "other")

	friendPublic := f.post(t, repo, friend, posts.OptionPublic, nil)
	friendOnly := f.post(t, repo, friend, posts.OptionFriend, nil)
	f.post(t, repo, friend, posts.OptionPrivate, nil)
	otherPublic := f.post(t, repo, other, posts.OptionPublic, nil)
	f.post(t, repo, other, posts.OptionFriend, nil)

	filter := posts.Filter{
		AuthorIDs:  []uuid.UUID{friend, other},
		Statuses:   []posts.Status{posts.StatusActive},
		Scope:      posts.PersonalPosts,
		Visibility: &posts.Visibility{ViewerID: viewer, FriendIDs: []uuid.UUID{friend}},
	}

	found, err := repo.Find(ctx, filter, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)

	ids := make([]uuid.UUID, len(found))
	for i, p := range found {
		ids[i] = p.ID
	}
	assert.Equal(t, []uuid.UUID{otherPublic.ID, friendOnly.ID, friendPublic.ID}, ids)

	total, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	second, err := repo.Find(ctx, filter, pagination.Params{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, friendPublic.ID, second[0].ID)
}

func TestPostRepo_UpdateAndStatus(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := f.user(t, "author")
	p := f.post(t, repo, author, posts.OptionPublic, nil)

	p.Text = "edited"
	p.Tags = []string{"edited"}
	p.UpdatedAt = p.UpdatedAt.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, p))
	require.NoError(t, repo.UpdateStatus(ctx, p.ID, posts.StatusRejected))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)
	assert.Equal(t, []string{"edited"}, got.Tags)
	assert.Equal(t, posts.StatusRejected, got.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), posts.StatusActive), posts.ErrNotFound)
}

func TestInteractionRepo_ToggleLifecycle(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	postRepo := NewPostRepository(db)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	author := f.user(t, "author")
	p := f.post(t, postRepo, author, posts.OptionPublic, nil)

	candidate := func(t interactions.Type) *interactions.Interaction {
		return &interactions.Interaction{ID: uuid.New(), PostID: p.ID, UserID: author, Type: t, CreatedAt: time.Now()}
	}

	added, err := repo.Toggle(ctx, candidate(interactions.TypeLove))
	require.NoError(t, err)
	assert.Equal(t, interactions.ActionAdded, added.Action)

	_, err = repo.Toggle(ctx, candidate(interactions.TypeSave))
	require.NoError(t, err)

	got, err := postRepo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LovesCount)
	assert.Zero(t, got.SharesCount)

	records, err := repo.ListByUserAndPosts(ctx, author, []uuid.UUID{p.ID, uuid.New()}, interactions.AllTypes)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	removed, err := repo.Toggle(ctx, candidate(interactions.TypeLove))
	require.NoError(t, err)
	assert.Equal(t, interactions.ActionRemoved, removed.Action)

	got, err = postRepo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, got.LovesCount)

	exists, err := repo.Exists(ctx, p.ID, author, interactions.TypeLove)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.Toggle(ctx, &interactions.Interaction{ID: uuid.New(), PostID: uuid.New(), UserID: author, Type: interactions.TypeLove})
	assert.ErrorIs(t, err, posts.ErrNotFound)
}

func TestInteractionRepo_ConcurrentDistinctUsers(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	postRepo := NewPostRepository(db)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	author := f.user(t, "author")
	p := f.post(t, postRepo, author, posts.OptionPublic, nil)

	const n = 20
	var wg sync.WaitGroup
	actions := make(chan interactions.Action, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := repo.Toggle(ctx, &interactions.Interaction{
				ID: uuid.New(), PostID: p.ID, UserID: uuid.New(), Type: interactions.TypeShare, CreatedAt: time.Now(),
			})
			errs <- err
			if err == nil {
				actions <- result.Action
			}
		}()
	}
	wg.Wait()
	close(errs)
	close(actions)
	for err := range errs {
		require.NoError(t, err)
	}

	added := 0
	for action := range actions {
		assert.Equal(t, interactions.ActionAdded, action)
		added++
	}
	assert.Equal(t, n, added)
	assert.Equal(t, n, countRecords(t, db, p.ID, interactions.TypeShare))

	got, err := postRepo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.SharesCount)
}

func TestInteractionRepo_SameUserRaceEndsInValidState(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	postRepo := NewPostRepository(db)
	service := interactions.NewInteractionService(NewInteractionRepository(db))
	ctx := context.Background()

	author := f.user(t, "author")
	viewer := f.user(t, "viewer")
	p := f.post(t, postRepo, author, posts.OptionPublic, nil)

	const toggles = 2
	var wg sync.WaitGroup
	actions := make(chan interactions.Action, toggles)
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := service.ToggleInteraction(ctx, p.ID, viewer, interactions.TypeLove)
			assert.NoError(t, err)
			if err == nil {
				actions <- result.Action
			}
		}()
	}
	wg.Wait()
	close(actions)

	var got []interactions.Action
	for action := range actions {
		got = append(got, action)
	}
	assert.ElementsMatch(t, []interactions.Action{interactions.ActionAdded, interactions.ActionRemoved}, got)

	records := countRecords(t, db, p.ID, interactions.TypeLove)
	assert.Zero(t, records)

	loaded, err := postRepo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, records, loaded.LovesCount)
}

func countRecords(t *testing.T, db *sql.DB, postID uuid.UUID, typ interactions.Type) int {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM post_interactions WHERE post_id = $1 AND type = $2`, postID, string(typ)).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestInteractionRepo_DeleteAndReconcile(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	postRepo := NewPostRepository(db)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	author := f.user(t, "author")
	kept := f.post(t, postRepo, author, posts.OptionPublic, nil)
	deleted := f.post(t, postRepo, author, posts.OptionPublic, nil)

	for _, id := range []uuid.UUID{kept.ID, deleted.ID} {
		_, err := repo.Toggle(ctx, &interactions.Interaction{ID: uuid.New(), PostID: id, UserID: author, Type: interactions.TypeLove, CreatedAt: time.Now()})
		require.NoError(t, err)
	}

	require.NoError(t, postRepo.Delete(ctx, deleted.ID))
	assert.ErrorIs(t, postRepo.Delete(ctx, deleted.ID), posts.ErrNotFound)

	exists, err := repo.Exists(ctx, deleted.ID, author, interactions.TypeLove)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = db.Exec(`UPDATE posts SET loves_count = 9 WHERE id = $1`, kept.ID)
	require.NoError(t, err)

	changed, err := repo.ReconcileCounters(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, changed, 1)

	got, err := postRepo.GetByID(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LovesCount)
}

func TestSocialGraphRepo(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	graph := NewSocialGraphRepository(db)
	ctx := context.Background()

	a := f.user(t, "a")
	b := f.user(t, "b")
	c := f.user(t, "c")
	groupID := f.group(t, "g", a)

	_, err := db.Exec(`INSERT INTO friendships (user_id, friend_id) VALUES ($1, $2), ($2, $1)`, a, b)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO follows (follower_id, following_id) VALUES ($1, $2)`, c, a)
	require.NoError(t, err)

	friends, err := graph.FriendIDs(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b}, friends)

	ok, err := graph.AreFriends(ctx, b, a)
	require.NoError(t, err)
	assert.True(t, ok)

	following, err := graph.FollowingIDs(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a}, following)

	groups, err := graph.GroupIDs(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{groupID}, groups)

	none, err := graph.GroupIDs(ctx, c)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
