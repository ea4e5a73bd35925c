package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/huydotcode/handbook-server-sub001/internal/core/interactions"
	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

// counterColumns whitelists the counter column per interaction type.
// Types without an entry have no counter.
var counterColumns = map[interactions.Type]string{
	interactions.TypeLove:  "loves_count",
	interactions.TypeShare: "shares_count",
}

type postgresInteractionRepo struct {
	db *sql.DB
}

// NewInteractionRepository creates a new PostgreSQL interaction repository
func NewInteractionRepository(db *sql.DB) interactions.Repository {
	return &postgresInteractionRepo{db: db}
}

// Toggle removes the (post, user, type) record if present, otherwise inserts
// candidate, and adjusts the post counter in the same transaction.
//
// The post row is locked first, so toggles on one post are serialized and
// each DELETE/INSERT statement sees every previously committed toggle. The
// unique constraint still backs the insert: if it reports a conflict the
// transaction is rolled back and ErrConcurrentToggle returned for a retry.
func (r *postgresInteractionRepo) Toggle(ctx context.Context, candidate *interactions.Interaction) (*interactions.ToggleResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx,
		slog.String("post_id", candidate.PostID.String()),
		slog.String("user_id", candidate.UserID.String()),
	)

	// 1. The post must be live
	var postID uuid.UUID
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM posts WHERE id = $1 AND deleted_at IS NULL FOR NO KEY UPDATE`,
		candidate.PostID,
	).Scan(&postID)
	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock post: %w", err)
	}

	// 2. Remove an existing record
	var removedID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		DELETE FROM post_interactions
		WHERE post_id = $1 AND user_id = $2 AND type = $3
		RETURNING id
	`, candidate.PostID, candidate.UserID, string(candidate.Type)).Scan(&removedID)

	switch {
	case err == nil:
		if err := adjustCounter(ctx, tx, candidate.PostID, candidate.Type, -1); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return &interactions.ToggleResult{Action: interactions.ActionRemoved}, nil

	case err != sql.ErrNoRows:
		return nil, fmt.Errorf("failed to delete interaction: %w", err)
	}

	// 3. Nothing to remove: insert
	added := *candidate
	err = tx.QueryRowContext(ctx, `
		INSERT INTO post_interactions (id, post_id, user_id, type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (post_id, user_id, type) DO NOTHING
		RETURNING created_at
	`, candidate.ID, candidate.PostID, candidate.UserID, string(candidate.Type), candidate.CreatedAt).Scan(&added.CreatedAt)

	// No row means another toggle for the same triple committed between our
	// DELETE and INSERT
	if err == sql.ErrNoRows {
		return nil, interactions.ErrConcurrentToggle
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert interaction: %w", err)
	}

	if err := adjustCounter(ctx, tx, candidate.PostID, candidate.Type, 1); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &interactions.ToggleResult{Action: interactions.ActionAdded, Interaction: &added}, nil
}

// adjustCounter applies delta to the counter column for t in place
// (never read-modify-write), flooring at zero
func adjustCounter(ctx context.Context, tx *sql.Tx, postID uuid.UUID, t interactions.Type, delta int) error {
	column, ok := counterColumns[t]
	if !ok {
		return nil
	}

	query := fmt.Sprintf(`UPDATE posts SET %s = GREATEST(0, %s + $2) WHERE id = $1`, column, column)
	if _, err := tx.ExecContext(ctx, query, postID, delta); err != nil {
		return fmt.Errorf("failed to update post %s: %w", column, err)
	}
	return nil
}

// Exists reports whether the (post, user, type) record exists
func (r *postgresInteractionRepo) Exists(ctx context.Context, postID, userID uuid.UUID, t interactions.Type) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM post_interactions
			WHERE post_id = $1 AND user_id = $2 AND type = $3
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, postID, userID, string(t)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check interaction: %w", err)
	}
	return exists, nil
}

// ListByUserAndPosts loads the user's records on a page of posts in one query
func (r *postgresInteractionRepo) ListByUserAndPosts(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID, types []interactions.Type) ([]*interactions.Interaction, error) {
	if len(postIDs) == 0 || len(types) == 0 {
		return []*interactions.Interaction{}, nil
	}

	typeNames := make([]string, len(types))
	for i, t := range types {
		typeNames[i] = string(t)
	}

	query := `
		SELECT id, post_id, user_id, type, created_at
		FROM post_interactions
		WHERE user_id = $1 AND post_id = ANY($2::uuid[]) AND type = ANY($3::text[])
	`

	rows, err := r.db.QueryContext(ctx, query, userID, uuidArray(postIDs), pq.Array(typeNames))
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	result := make([]*interactions.Interaction, 0)
	for rows.Next() {
		var (
			rec      interactions.Interaction
			typeName string
		)
		if err := rows.Scan(&rec.ID, &rec.PostID, &rec.UserID, &typeName, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		rec.Type = interactions.Type(typeName)
		result = append(result, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interactions: %w", err)
	}

	return result, nil
}

// ReconcileCounters recomputes loves_count and shares_count from live rows
// and returns how many posts were corrected
func (r *postgresInteractionRepo) ReconcileCounters(ctx context.Context) (int, error) {
	query := `
		WITH counts AS (
			SELECT p.id,
				COUNT(pi.id) FILTER (WHERE pi.type = 'love') AS loves,
				COUNT(pi.id) FILTER (WHERE pi.type = 'share') AS shares
			FROM posts p
			LEFT JOIN post_interactions pi ON pi.post_id = p.id
			GROUP BY p.id
		)
		UPDATE posts
		SET loves_count = counts.loves, shares_count = counts.shares
		FROM counts
		WHERE posts.id = counts.id
		  AND (posts.loves_count <> counts.loves OR posts.shares_count <> counts.shares)
	`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile counters: %w", err)
	}

	changed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check reconcile result: %w", err)
	}

	return int(changed), nil
}
