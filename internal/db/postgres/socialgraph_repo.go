package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/huydotcode/handbook-server-sub001/internal/core/socialgraph"
)

type postgresSocialGraphRepo struct {
	db *sql.DB
}

// NewSocialGraphRepository creates a social graph provider over the
// friendships, follows and group_members tables
func NewSocialGraphRepository(db *sql.DB) socialgraph.Provider {
	return &postgresSocialGraphRepo{db: db}
}

// FriendIDs returns userID's friends. Friendships are stored in both
// directions, so one column lookup suffices.
func (r *postgresSocialGraphRepo) FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return r.queryIDs(ctx, `SELECT friend_id FROM friendships WHERE user_id = $1`, userID)
}

// FollowingIDs returns the users userID follows
func (r *postgresSocialGraphRepo) FollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return r.queryIDs(ctx, `SELECT following_id FROM follows WHERE follower_id = $1`, userID)
}

// GroupIDs returns the groups userID is a member of
func (r *postgresSocialGraphRepo) GroupIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return r.queryIDs(ctx, `SELECT group_id FROM group_members WHERE user_id = $1`, userID)
}

// AreFriends reports whether a and b are friends
func (r *postgresSocialGraphRepo) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, a, b).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return ok, nil
}

// queryIDs runs a single-column id query. The result is never nil.
func (r *postgresSocialGraphRepo) queryIDs(ctx context.Context, query string, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query social graph: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating social graph rows: %w", err)
	}

	return ids, nil
}
