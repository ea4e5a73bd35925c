package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/huydotcode/handbook-server-sub001/internal/core/socialgraph"
)

type memorySocialGraphRepo struct {
	store *Store
}

// NewSocialGraphRepository creates a social graph provider backed by store
func NewSocialGraphRepository(store *Store) socialgraph.Provider {
	return &memorySocialGraphRepo{store: store}
}

func (r *memorySocialGraphRepo) FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return keys(r.store.friends[userID]), nil
}

func (r *memorySocialGraphRepo) FollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return keys(r.store.following[userID]), nil
}

func (r *memorySocialGraphRepo) GroupIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := make([]uuid.UUID, 0)
	for id, g := range r.store.groups {
		if _, ok := g.members[userID]; ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *memorySocialGraphRepo) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	_, ok := r.store.friends[a][b]
	return ok, nil
}

func keys(set map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
