package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/huydotcode/handbook-server-sub001/internal/core/pagination"
	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

// foreignKeyViolation is the SQLSTATE for a missing referenced row
const foreignKeyViolation = "23503"

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// Create inserts a new post. Counters are always stored as zero.
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	query := `
		INSERT INTO posts (
			id, author_id, group_id, text, media, option, status, tags,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10
		)
	`

	var groupID uuid.NullUUID
	if post.GroupID != nil {
		groupID = uuid.NullUUID{UUID: *post.GroupID, Valid: true}
	}

	_, err := r.db.ExecContext(
		ctx, query,
		post.ID, post.AuthorID, groupID, post.Text, pq.Array(nonNilStrings(post.Media)),
		string(post.Option), string(post.Status), pq.Array(nonNilStrings(post.Tags)),
		post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			if pqErr.Constraint == "posts_group_id_fkey" && post.GroupID != nil {
				return posts.NewNotFoundError("group", post.GroupID.String())
			}
			return posts.NewNotFoundError("user", post.AuthorID.String())
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}

	post.LovesCount, post.SharesCount, post.CommentsCount = 0, 0, 0
	return nil
}

// GetByID retrieves a live post with author and group hydrated
func (r *postgresPostRepo) GetByID(ctx context.Context, id uuid.UUID) (*posts.Post, error) {
	query := fmt.Sprintf(`SELECT %s %s
		WHERE p.id = $1 AND p.deleted_at IS NULL AND (p.group_id IS NULL OR g.id IS NOT NULL)`,
		postColumns, postFrom)

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// Update persists the editable fields of a live post
func (r *postgresPostRepo) Update(ctx context.Context, post *posts.Post) error {
	query := `
		UPDATE posts
		SET text = $2, media = $3, option = $4, tags = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(
		ctx, query,
		post.ID, post.Text, pq.Array(nonNilStrings(post.Media)),
		string(post.Option), pq.Array(nonNilStrings(post.Tags)), post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	return requireOneRow(result)
}

// UpdateStatus sets the moderation status of a live post
func (r *postgresPostRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status posts.Status) error {
	query := `
		UPDATE posts
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update post status: %w", err)
	}

	return requireOneRow(result)
}

// Delete soft-deletes the post and removes its interactions in one
// transaction. Counters are left as they were; the post is no longer served.
func (r *postgresPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx, slog.String("post_id", id.String()))

	result, err := tx.ExecContext(ctx,
		`UPDATE posts SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if err := requireOneRow(result); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_interactions WHERE post_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete post interactions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Find returns one page of posts matching filter, newest first
func (r *postgresPostRepo) Find(ctx context.Context, filter posts.Filter, params pagination.Params) ([]*posts.Post, error) {
	if filter.MatchesNothing() {
		return []*posts.Post{}, nil
	}

	query, args := selectPage(filter, params)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	result := make([]*posts.Post, 0, params.Limit())
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return result, nil
}

// Count returns the number of posts matching filter
func (r *postgresPostRepo) Count(ctx context.Context, filter posts.Filter) (int, error) {
	if filter.MatchesNothing() {
		return 0, nil
	}

	query, args := selectCount(filter)
	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}

	return total, nil
}

func requireOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		return posts.ErrNotFound
	}
	return nil
}

// rollback is deferred after BeginTx; it is a no-op once the tx committed
func rollback(tx *sql.Tx, attrs ...slog.Attr) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		args := make([]any, 0, len(attrs)+1)
		for _, a := range attrs {
			args = append(args, a)
		}
		args = append(args, slog.String("error", err.Error()))
		slog.Error("failed to rollback transaction", args...)
	}
}
