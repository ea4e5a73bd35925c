// Package socialgraph describes the friend, following and group-membership
// relationships that scope feeds. The graph is owned by the user/group
// subsystems; feeds only read it.
package socialgraph

import (
	"context"

	"github.com/google/uuid"
)

// Provider exposes the id sets used to assemble feeds.
// Implementations must be side-effect free.
type Provider interface {
	// FriendIDs returns the ids of userID's friends
	FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// FollowingIDs returns the ids of users userID follows
	FollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// GroupIDs returns the ids of groups userID is a member of
	GroupIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// AreFriends reports whether a and b are friends. Friendship is symmetric.
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// Union merges id sets, dropping duplicates and keeping first-seen order.
// The result is never nil, so an empty union still reads as "no candidates".
func Union(sets ...[]uuid.UUID) []uuid.UUID {
	size := 0
	for _, set := range sets {
		size += len(set)
	}

	seen := make(map[uuid.UUID]struct{}, size)
	out := make([]uuid.UUID, 0, size)
	for _, set := range sets {
		for _, id := range set {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
