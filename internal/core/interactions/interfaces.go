package interactions

import (
	"context"

	"github.com/google/uuid"

	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

// Service defines the business logic interface for post interactions
type Service interface {
	// ToggleInteraction adds the (post, user, type) record if absent, removes
	// it if present, and adjusts the post's counter in the same operation
	ToggleInteraction(ctx context.Context, postID, userID uuid.UUID, t Type) (*ToggleResult, error)

	// HasUserInteracted reports whether the record exists
	HasUserInteracted(ctx context.Context, postID, userID uuid.UUID, t Type) (bool, error)

	// Annotate attaches the viewer's loved/shared/saved flags to a page of
	// posts using one batch lookup
	Annotate(ctx context.Context, page []*posts.Post, userID uuid.UUID) ([]*PostWithInteraction, error)

	// ReconcileCounters recomputes every post counter from live records and
	// returns the number of posts whose counters changed
	ReconcileCounters(ctx context.Context) (int, error)
}

// Repository defines the data access interface for interactions
type Repository interface {
	// Toggle deletes the record matching candidate's (post, user, type) if it
	// exists, otherwise inserts candidate, and adjusts the matching post
	// counter atomically with the write (floored at zero on removal).
	// Returns posts.ErrNotFound when the post is missing or soft-deleted and
	// ErrConcurrentToggle when the insert lost a uniqueness race.
	Toggle(ctx context.Context, candidate *Interaction) (*ToggleResult, error)

	// Exists reports whether a (post, user, type) record exists
	Exists(ctx context.Context, postID, userID uuid.UUID, t Type) (bool, error)

	// ListByUserAndPosts returns the user's records of the given types on any
	// of postIDs, in one query
	ListByUserAndPosts(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID, types []Type) ([]*Interaction, error)

	// ReconcileCounters rewrites post counters from live records
	ReconcileCounters(ctx context.Context) (int, error)
}
