package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/huydotcode/handbook-server-sub001/internal/core/pagination"
	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

// Shared SELECT/FROM for every post read. Author and group are hydrated by
// JOIN in the same query, so a page never triggers per-post lookups.
//
// DATABASE INDEXES REQUIRED (003_create_posts_table.sql):
//
// 1. idx_posts_author_created ON posts(author_id, created_at DESC, id DESC) WHERE deleted_at IS NULL
//   - Used by: new, friend and profile feeds
//
// 2. idx_posts_group_created ON posts(group_id, created_at DESC, id DESC) WHERE deleted_at IS NULL AND group_id IS NOT NULL
//   - Used by: group and group-manage feeds
//
// 3. idx_post_interactions_user_post ON post_interactions(user_id, post_id)
//   - Used by: saved feed (EXISTS) and the annotation batch lookup
const (
	postColumns = `
		p.id, p.author_id, p.group_id, p.text, p.media, p.option, p.status, p.tags,
		p.loves_count, p.shares_count, p.comments_count,
		p.created_at, p.updated_at,
		u.name, u.avatar, g.name, g.avatar`

	// The group join is LEFT so personal posts survive it; the matching
	// WHERE condition drops group posts whose group no longer exists.
	postFrom = `
		FROM posts p
		INNER JOIN users u ON u.id = p.author_id
		LEFT JOIN groups g ON g.id = p.group_id`

	postOrder = `ORDER BY p.created_at DESC, p.id DESC`
)

// queryBuilder accumulates WHERE conditions and their positional arguments
type queryBuilder struct {
	conditions []string
	args       []interface{}
}

// arg registers a value and returns its placeholder
func (b *queryBuilder) arg(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *queryBuilder) where(condition string) {
	b.conditions = append(b.conditions, condition)
}

func (b *queryBuilder) whereClause() string {
	return "WHERE " + strings.Join(b.conditions, " AND ")
}

// buildFilter translates a posts.Filter into SQL conditions.
// Every value goes through a placeholder; only fixed fragments are inlined.
func buildFilter(filter posts.Filter) *queryBuilder {
	b := &queryBuilder{}
	b.where("p.deleted_at IS NULL")
	b.where("(p.group_id IS NULL OR g.id IS NOT NULL)")

	if filter.AuthorIDs != nil {
		b.where(fmt.Sprintf("p.author_id = ANY(%s::uuid[])", b.arg(uuidArray(filter.AuthorIDs))))
	}
	if filter.GroupIDs != nil {
		b.where(fmt.Sprintf("p.group_id = ANY(%s::uuid[])", b.arg(uuidArray(filter.GroupIDs))))
	}
	if filter.Statuses != nil {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		b.where(fmt.Sprintf("p.status = ANY(%s::text[])", b.arg(pq.Array(statuses))))
	}
	if filter.Options != nil {
		options := make([]string, len(filter.Options))
		for i, o := range filter.Options {
			options[i] = string(o)
		}
		b.where(fmt.Sprintf("p.option = ANY(%s::text[])", b.arg(pq.Array(options))))
	}

	switch filter.Scope {
	case posts.PersonalPosts:
		b.where("p.group_id IS NULL")
	case posts.GroupPosts:
		b.where("p.group_id IS NOT NULL")
	}

	if filter.Tag != "" {
		b.where(fmt.Sprintf("%s = ANY(p.tags)", b.arg(filter.Tag)))
	}

	if v := filter.Visibility; v != nil {
		b.where(visibilityCondition(b, v))
	}

	if ref := filter.InteractedBy; ref != nil {
		b.where(fmt.Sprintf(`EXISTS (
			SELECT 1 FROM post_interactions pi
			WHERE pi.post_id = p.id AND pi.user_id = %s AND pi.type = %s
		)`, b.arg(ref.UserID), b.arg(ref.Type)))
	}

	return b
}

// visibilityCondition is posts.CanView over the three options with the
// viewer's friend set bound as an array parameter
func visibilityCondition(b *queryBuilder, v *posts.Visibility) string {
	if v.ViewerID == uuid.Nil {
		return "p.option = 'public'"
	}
	return fmt.Sprintf(
		"(p.author_id = %s OR p.option = 'public' OR (p.option = 'friend' AND p.author_id = ANY(%s::uuid[])))",
		b.arg(v.ViewerID), b.arg(uuidArray(v.FriendIDs)),
	)
}

// selectPage builds the page query for filter
func selectPage(filter posts.Filter, params pagination.Params) (string, []interface{}) {
	b := buildFilter(filter)
	limit := b.arg(params.Limit())
	offset := b.arg(params.Skip())

	query := fmt.Sprintf("SELECT %s %s %s %s LIMIT %s OFFSET %s",
		postColumns, postFrom, b.whereClause(), postOrder, limit, offset)
	return query, b.args
}

// selectCount builds the count query for filter, sharing the page query's
// joins so dangling authors and groups are excluded from both
func selectCount(filter posts.Filter) (string, []interface{}) {
	b := buildFilter(filter)
	query := fmt.Sprintf("SELECT COUNT(*) %s %s", postFrom, b.whereClause())
	return query, b.args
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanPost scans one row of postColumns into a hydrated post
func scanPost(row rowScanner) (*posts.Post, error) {
	var (
		post        posts.Post
		author      posts.AuthorView
		groupID     uuid.NullUUID
		media, tags pq.StringArray
		option      string
		status      string
		authorAvtr  sql.NullString
		groupName   sql.NullString
		groupAvatar sql.NullString
	)

	err := row.Scan(
		&post.ID, &post.AuthorID, &groupID, &post.Text, &media, &option, &status, &tags,
		&post.LovesCount, &post.SharesCount, &post.CommentsCount,
		&post.CreatedAt, &post.UpdatedAt,
		&author.Name, &authorAvtr, &groupName, &groupAvatar,
	)
	if err != nil {
		return nil, err
	}

	post.Option = posts.Option(option)
	post.Status = posts.Status(status)
	post.Media = nonNilStrings(media)
	post.Tags = nonNilStrings(tags)

	author.ID = post.AuthorID
	author.Avatar = nullStringPtr(authorAvtr)
	post.Author = &author

	if groupID.Valid {
		id := groupID.UUID
		post.GroupID = &id
		post.Group = &posts.GroupView{
			ID:     id,
			Name:   groupName.String,
			Avatar: nullStringPtr(groupAvatar),
		}
	}

	return &post, nil
}

// uuidArray binds ids as a text array; callers cast it with ::uuid[]
func uuidArray(ids []uuid.UUID) interface{} {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return pq.Array(out)
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// nullStringPtr converts sql.NullString to *string
func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
