package posts

import (
	"context"

	"github.com/google/uuid"

	"github.com/huydotcode/handbook-server-sub001/internal/core/pagination"
)

// Service defines the business logic interface for posts
type Service interface {
	// CreatePost validates and stores a new post authored by authorID.
	// Group posts require membership and start pending moderation.
	CreatePost(ctx context.Context, authorID uuid.UUID, req CreatePostRequest) (*Post, error)

	// GetPost returns a single post if viewerID may see it (uuid.Nil = anonymous)
	GetPost(ctx context.Context, viewerID, postID uuid.UUID) (*Post, error)

	// UpdatePost edits text/media/option/tags. Author only.
	UpdatePost(ctx context.Context, userID, postID uuid.UUID, req UpdatePostRequest) (*Post, error)

	// UpdateStatus changes the moderation flag
	UpdateStatus(ctx context.Context, viewerID, postID uuid.UUID, status Status) error

	// DeletePost soft-deletes a post and removes its interaction records. Author only.
	DeletePost(ctx context.Context, userID, postID uuid.UUID) error
}

// Repository defines the data access interface for posts.
// Reads return hydrated posts (author and group joined in the same query).
type Repository interface {
	// Create inserts a new post. Counters always start at zero.
	Create(ctx context.Context, post *Post) error

	// GetByID retrieves a live post. Returns ErrNotFound for missing or soft-deleted posts.
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// Update persists the editable fields and updated_at
	Update(ctx context.Context, post *Post) error

	// UpdateStatus sets the moderation status of a live post
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	// Delete soft-deletes the post and hard-deletes its interaction records atomically
	Delete(ctx context.Context, id uuid.UUID) error

	// Find returns one page of posts matching filter, newest first (created_at
	// DESC, id DESC)
	Find(ctx context.Context, filter Filter, params pagination.Params) ([]*Post, error)

	// Count returns the number of posts matching filter, ignoring pagination
	Count(ctx context.Context, filter Filter) (int, error)
}
