package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/huydotcode/handbook-server-sub001/internal/core/interactions"
	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

type memoryInteractionRepo struct {
	store *Store
}

// NewInteractionRepository creates an interaction repository backed by store
func NewInteractionRepository(store *Store) interactions.Repository {
	return &memoryInteractionRepo{store: store}
}

// Toggle runs delete-if-exists-else-insert and the counter adjustment under
// the store's write lock, the in-process equivalent of one transaction
func (r *memoryInteractionRepo) Toggle(ctx context.Context, candidate *interactions.Interaction) (*interactions.ToggleResult, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[candidate.PostID]
	if !ok || p.DeletedAt != nil {
		return nil, posts.ErrNotFound
	}

	key := interactionKey{postID: candidate.PostID, userID: candidate.UserID, t: candidate.Type}
	if _, exists := s.interactions[key]; exists {
		delete(s.interactions, key)
		adjustCounter(p, candidate.Type, -1)
		return &interactions.ToggleResult{Action: interactions.ActionRemoved}, nil
	}

	stored := *candidate
	s.interactions[key] = &stored
	adjustCounter(p, candidate.Type, 1)

	added := stored
	return &interactions.ToggleResult{Action: interactions.ActionAdded, Interaction: &added}, nil
}

func (r *memoryInteractionRepo) Exists(ctx context.Context, postID, userID uuid.UUID, t interactions.Type) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.interactions[interactionKey{postID: postID, userID: userID, t: t}]
	return ok, nil
}

func (r *memoryInteractionRepo) ListByUserAndPosts(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID, types []interactions.Type) ([]*interactions.Interaction, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*interactions.Interaction, 0)
	for key, rec := range s.interactions {
		if key.userID != userID || !slices.Contains(postIDs, key.postID) || !slices.Contains(types, key.t) {
			continue
		}
		out := *rec
		result = append(result, &out)
	}
	return result, nil
}

func (r *memoryInteractionRepo) ReconcileCounters(ctx context.Context) (int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	loves := make(map[uuid.UUID]int)
	shares := make(map[uuid.UUID]int)
	for key := range s.interactions {
		switch key.t {
		case interactions.TypeLove:
			loves[key.postID]++
		case interactions.TypeShare:
			shares[key.postID]++
		}
	}

	changed := 0
	for id, p := range s.posts {
		if p.LovesCount != loves[id] || p.SharesCount != shares[id] {
			p.LovesCount = loves[id]
			p.SharesCount = shares[id]
			changed++
		}
	}
	return changed, nil
}

// adjustCounter applies delta to the counter matching t, never below zero
func adjustCounter(p *posts.Post, t interactions.Type, delta int) {
	switch t {
	case interactions.TypeLove:
		p.LovesCount = max(0, p.LovesCount+delta)
	case interactions.TypeShare:
		p.SharesCount = max(0, p.SharesCount+delta)
	}
}
