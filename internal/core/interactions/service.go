package interactions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

// DefaultToggleRetries bounds how often a toggle that lost a uniqueness race
// is replayed
const DefaultToggleRetries = 3

type interactionService struct {
	repo       Repository
	now        func() time.Time
	maxRetries uint64
	backoff    time.Duration
}

// NewInteractionService creates a new interaction service
func NewInteractionService(repo Repository) Service {
	return &interactionService{
		repo:       repo,
		now:        func() time.Time { return time.Now().UTC() },
		maxRetries: DefaultToggleRetries,
		backoff:    5 * time.Millisecond,
	}
}

// ToggleInteraction flips the (post, user, type) record.
//
// Two concurrent toggles by the same user on the same (post, type) are not
// ordered: whichever commits second observes the first one's record and
// undoes it. Both calls succeed and the final state is one of the two valid
// terminal states, but which one is not determined.
func (s *interactionService) ToggleInteraction(ctx context.Context, postID, userID uuid.UUID, t Type) (*ToggleResult, error) {
	if err := validateKey(postID, userID, t); err != nil {
		return nil, err
	}

	var result *ToggleResult
	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewExponential(s.backoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate interaction id: %w", err)
		}

		candidate := &Interaction{
			ID:        id,
			PostID:    postID,
			UserID:    userID,
			Type:      t,
			CreatedAt: s.now(),
		}

		result, err = s.repo.Toggle(ctx, candidate)
		if errors.Is(err, ErrConcurrentToggle) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		if posts.IsNotFound(err) {
			return nil, posts.NewNotFoundError("post", postID.String())
		}
		return nil, fmt.Errorf("failed to toggle %s interaction: %w", t, err)
	}

	return result, nil
}

// HasUserInteracted reports whether userID has an interaction of type t on
// postID. Anonymous viewers have interacted with nothing.
func (s *interactionService) HasUserInteracted(ctx context.Context, postID, userID uuid.UUID, t Type) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}
	if err := validateKey(postID, userID, t); err != nil {
		return false, err
	}

	return s.repo.Exists(ctx, postID, userID, t)
}

// Annotate attaches userHasLoved/Shared/Saved to each post. All flags are
// loaded by a single ListByUserAndPosts call regardless of page size.
func (s *interactionService) Annotate(ctx context.Context, page []*posts.Post, userID uuid.UUID) ([]*PostWithInteraction, error) {
	annotated := make([]*PostWithInteraction, len(page))
	for i, p := range page {
		annotated[i] = &PostWithInteraction{Post: p}
	}

	if userID == uuid.Nil || len(page) == 0 {
		return annotated, nil
	}

	postIDs := make([]uuid.UUID, len(page))
	for i, p := range page {
		postIDs[i] = p.ID
	}

	records, err := s.repo.ListByUserAndPosts(ctx, userID, postIDs, AllTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer interactions: %w", err)
	}

	byPost := make(map[uuid.UUID][]Type, len(records))
	for _, r := range records {
		byPost[r.PostID] = append(byPost[r.PostID], r.Type)
	}

	for _, p := range annotated {
		for _, t := range byPost[p.ID] {
			p.set(t)
		}
	}

	return annotated, nil
}

// ReconcileCounters recomputes denormalized counters from live records
func (s *interactionService) ReconcileCounters(ctx context.Context) (int, error) {
	return s.repo.ReconcileCounters(ctx)
}

func validateKey(postID, userID uuid.UUID, t Type) error {
	if userID == uuid.Nil {
		return posts.ErrUnauthorized
	}
	if postID == uuid.Nil {
		return posts.NewValidationError("postId", "postId is required")
	}
	if !t.Valid() {
		return posts.NewValidationError("type", "type must be one of: love, share, save")
	}
	return nil
}
