package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/huydotcode/handbook-server-sub001/internal/core/interactions"
	"github.com/huydotcode/handbook-server-sub001/internal/core/pagination"
	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

type memoryPostRepo struct {
	store *Store
}

// NewPostRepository creates a post repository backed by store
func NewPostRepository(store *Store) posts.Repository {
	return &memoryPostRepo{store: store}
}

func (r *memoryPostRepo) Create(ctx context.Context, post *posts.Post) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[post.AuthorID]; !ok {
		return posts.NewNotFoundError("user", post.AuthorID.String())
	}
	if post.GroupID != nil {
		if _, ok := s.groups[*post.GroupID]; !ok {
			return posts.NewNotFoundError("group", post.GroupID.String())
		}
	}

	stored := *post
	stored.LovesCount, stored.SharesCount, stored.CommentsCount = 0, 0, 0
	stored.Author, stored.Group = nil, nil
	s.posts[post.ID] = &stored

	post.LovesCount, post.SharesCount, post.CommentsCount = 0, 0, 0
	return nil
}

func (r *memoryPostRepo) GetByID(ctx context.Context, id uuid.UUID) (*posts.Post, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok || p.DeletedAt != nil {
		return nil, posts.ErrNotFound
	}
	out, ok := s.hydrate(p)
	if !ok {
		return nil, posts.ErrNotFound
	}
	return out, nil
}

func (r *memoryPostRepo) Update(ctx context.Context, post *posts.Post) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[post.ID]
	if !ok || p.DeletedAt != nil {
		return posts.ErrNotFound
	}
	p.Text = post.Text
	p.Media = append([]string{}, post.Media...)
	p.Option = post.Option
	p.Tags = append([]string{}, post.Tags...)
	p.UpdatedAt = post.UpdatedAt
	return nil
}

func (r *memoryPostRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status posts.Status) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok || p.DeletedAt != nil {
		return posts.ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = nowUTC()
	return nil
}

func (r *memoryPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok || p.DeletedAt != nil {
		return posts.ErrNotFound
	}
	now := nowUTC()
	p.DeletedAt = &now

	for key := range s.interactions {
		if key.postID == id {
			delete(s.interactions, key)
		}
	}
	return nil
}

func (r *memoryPostRepo) Find(ctx context.Context, filter posts.Filter, params pagination.Params) ([]*posts.Post, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.match(filter)
	slices.SortFunc(matched, newerFirst)

	start := params.Skip()
	if start < 0 || start >= len(matched) {
		return []*posts.Post{}, nil
	}
	end := start + min(params.Limit(), len(matched)-start)
	return matched[start:end], nil
}

func (r *memoryPostRepo) Count(ctx context.Context, filter posts.Filter) (int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.match(filter)), nil
}

// match must be called with the read lock held
func (s *Store) match(filter posts.Filter) []*posts.Post {
	if filter.MatchesNothing() {
		return []*posts.Post{}
	}

	out := make([]*posts.Post, 0)
	for _, p := range s.posts {
		if !filter.Matches(p) {
			continue
		}
		if ref := filter.InteractedBy; ref != nil {
			key := interactionKey{postID: p.ID, userID: ref.UserID, t: interactions.Type(ref.Type)}
			if _, ok := s.interactions[key]; !ok {
				continue
			}
		}
		hydrated, ok := s.hydrate(p)
		if !ok {
			continue
		}
		out = append(out, hydrated)
	}
	return out
}
