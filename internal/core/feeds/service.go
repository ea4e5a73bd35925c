package feeds

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/huydotcode/handbook-server-sub001/internal/core/interactions"
	"github.com/huydotcode/handbook-server-sub001/internal/core/pagination"
	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
	"github.com/huydotcode/handbook-server-sub001/internal/core/socialgraph"
)

var (
	activeOnly     = []posts.Status{posts.StatusActive}
	manageStatuses = []posts.Status{posts.StatusActive, posts.StatusPending}
)

type feedService struct {
	repo      posts.Repository
	graph     socialgraph.Provider
	annotator Annotator
	cfg       Config
}

// NewFeedService creates a new feed service
func NewFeedService(repo posts.Repository, graph socialgraph.Provider, annotator Annotator, cfg Config) Service {
	if cfg.MaxPageSize < 1 {
		cfg.MaxPageSize = pagination.MaxPageSize
	}
	if cfg.DefaultPageSize < 1 || cfg.DefaultPageSize > cfg.MaxPageSize {
		cfg.DefaultPageSize = min(pagination.DefaultPageSize, cfg.MaxPageSize)
	}
	return &feedService{
		repo:      repo,
		graph:     graph,
		annotator: annotator,
		cfg:       cfg,
	}
}

func (s *feedService) GetNewFeedPosts(ctx context.Context, userID uuid.UUID, page, pageSize int) (*Page, error) {
	if userID == uuid.Nil {
		return nil, posts.ErrUnauthorized
	}

	var friends, following []uuid.UUID
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		friends, err = s.graph.FriendIDs(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		following, err = s.graph.FollowingIDs(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve social graph: %w", err)
	}

	friends = socialgraph.Union(friends)
	filter := posts.Filter{
		AuthorIDs:  socialgraph.Union(friends, following),
		Statuses:   activeOnly,
		Scope:      posts.PersonalPosts,
		Visibility: &posts.Visibility{ViewerID: userID, FriendIDs: friends},
	}
	return s.GetPostsWithInteraction(ctx, filter, userID, page, pageSize)
}

func (s *feedService) GetNewFeedFriendPosts(ctx context.Context, userID uuid.UUID, page, pageSize int) (*Page, error) {
	if userID == uuid.Nil {
		return nil, posts.ErrUnauthorized
	}

	friends, err := s.graph.FriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve friends: %w", err)
	}

	friends = socialgraph.Union(friends)
	filter := posts.Filter{
		AuthorIDs:  friends,
		Statuses:   activeOnly,
		Scope:      posts.PersonalPosts,
		Visibility: &posts.Visibility{ViewerID: userID, FriendIDs: friends},
	}
	return s.GetPostsWithInteraction(ctx, filter, userID, page, pageSize)
}

func (s *feedService) GetNewFeedGroupPosts(ctx context.Context, userID uuid.UUID, page, pageSize int) (*Page, error) {
	if userID == uuid.Nil {
		return nil, posts.ErrUnauthorized
	}

	groups, err := s.graph.GroupIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve groups: %w", err)
	}

	// Membership is the access rule inside groups; option is not consulted.
	filter := posts.Filter{
		GroupIDs: socialgraph.Union(groups),
		Statuses: activeOnly,
		Scope:    posts.GroupPosts,
	}
	return s.GetPostsWithInteraction(ctx, filter, userID, page, pageSize)
}

func (s *feedService) GetProfilePosts(ctx context.Context, viewerID, authorID uuid.UUID, page, pageSize int) (*Page, error) {
	if authorID == uuid.Nil {
		return nil, posts.NewValidationError("userId", "userId is required")
	}

	areFriends := false
	if viewerID != uuid.Nil && viewerID != authorID {
		var err error
		areFriends, err = s.graph.AreFriends(ctx, viewerID, authorID)
		if err != nil {
			return nil, fmt.Errorf("failed to check friendship: %w", err)
		}
	}

	filter := posts.Filter{
		AuthorIDs: []uuid.UUID{authorID},
		Statuses:  activeOnly,
		Scope:     posts.PersonalPosts,
		Options:   posts.VisibleOptions(viewerID, authorID, areFriends),
	}
	return s.GetPostsWithInteraction(ctx, filter, viewerID, page, pageSize)
}

func (s *feedService) GetGroupManagePosts(ctx context.Context, viewerID, groupID uuid.UUID, status posts.Status, page, pageSize int) (*Page, error) {
	if viewerID == uuid.Nil {
		return nil, posts.ErrUnauthorized
	}
	if groupID == uuid.Nil {
		return nil, posts.NewValidationError("groupId", "groupId is required")
	}
	if status == "" {
		status = posts.StatusActive
	}
	if !slices.Contains(manageStatuses, status) {
		return nil, posts.NewValidationError("status", "status must be one of: active, pending")
	}

	groups, err := s.graph.GroupIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve groups: %w", err)
	}
	if !slices.Contains(groups, groupID) {
		return nil, posts.ErrNotGroupMember
	}

	filter := posts.Filter{
		GroupIDs: []uuid.UUID{groupID},
		Statuses: []posts.Status{status},
		Scope:    posts.GroupPosts,
	}
	return s.GetPostsWithInteraction(ctx, filter, viewerID, page, pageSize)
}

func (s *feedService) GetSavedPosts(ctx context.Context, userID uuid.UUID, page, pageSize int) (*Page, error) {
	if userID == uuid.Nil {
		return nil, posts.ErrUnauthorized
	}

	friends, err := s.graph.FriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve friends: %w", err)
	}

	// A saved post stays hidden if its author has since narrowed its option
	filter := posts.Filter{
		InteractedBy: &posts.InteractionRef{UserID: userID, Type: string(interactions.TypeSave)},
		Statuses:     activeOnly,
		Visibility:   &posts.Visibility{ViewerID: userID, FriendIDs: socialgraph.Union(friends)},
	}
	return s.GetPostsWithInteraction(ctx, filter, userID, page, pageSize)
}

// GetPostsWithInteraction runs the page query and the count query in
// parallel against the same filter, then annotates the page in one batch
func (s *feedService) GetPostsWithInteraction(ctx context.Context, filter posts.Filter, userID uuid.UUID, page, pageSize int) (*Page, error) {
	params := pagination.Clamp(page, pageSize, s.cfg.DefaultPageSize, s.cfg.MaxPageSize)

	if filter.MatchesNothing() {
		return pagination.Empty[*interactions.PostWithInteraction](params), nil
	}

	var (
		found []*posts.Post
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		found, err = s.repo.Find(gctx, filter, params)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}

	annotated, err := s.annotator.Annotate(ctx, found, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to annotate feed: %w", err)
	}

	return pagination.NewResult(annotated, params, total), nil
}
