package feeds

import (
	"context"

	"github.com/google/uuid"

	"github.com/huydotcode/handbook-server-sub001/internal/core/interactions"
	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

// Service assembles paginated, viewer-annotated feeds.
// page and pageSize are clamped, never rejected.
type Service interface {
	// GetNewFeedPosts returns active personal posts by the viewer's friends
	// and followed users that the viewer may see
	GetNewFeedPosts(ctx context.Context, userID uuid.UUID, page, pageSize int) (*Page, error)

	// GetNewFeedFriendPosts returns active personal posts by the viewer's friends
	GetNewFeedFriendPosts(ctx context.Context, userID uuid.UUID, page, pageSize int) (*Page, error)

	// GetNewFeedGroupPosts returns active posts in groups the viewer belongs to
	GetNewFeedGroupPosts(ctx context.Context, userID uuid.UUID, page, pageSize int) (*Page, error)

	// GetProfilePosts returns authorID's active personal posts visible to
	// viewerID (uuid.Nil = anonymous)
	GetProfilePosts(ctx context.Context, viewerID, authorID uuid.UUID, page, pageSize int) (*Page, error)

	// GetGroupManagePosts returns a group's posts with the given status
	// (active or pending) for moderation
	GetGroupManagePosts(ctx context.Context, viewerID, groupID uuid.UUID, status posts.Status, page, pageSize int) (*Page, error)

	// GetSavedPosts returns active posts the viewer has saved
	GetSavedPosts(ctx context.Context, userID uuid.UUID, page, pageSize int) (*Page, error)

	// GetPostsWithInteraction runs filter and annotates the page for userID
	GetPostsWithInteraction(ctx context.Context, filter posts.Filter, userID uuid.UUID, page, pageSize int) (*Page, error)
}

// Annotator attaches viewer interaction flags to a page of posts
type Annotator interface {
	Annotate(ctx context.Context, page []*posts.Post, userID uuid.UUID) ([]*interactions.PostWithInteraction, error)
}
