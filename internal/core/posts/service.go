package posts

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/huydotcode/handbook-server-sub001/internal/core/socialgraph"
)

// Content limits
const (
	MaxTextLength = 5000
	MaxMedia      = 10
	MaxTags       = 20
	MaxTagLength  = 50
)

type postService struct {
	repo  Repository
	graph socialgraph.Provider
	now   func() time.Time
}

// NewPostService creates a new post service
func NewPostService(repo Repository, graph socialgraph.Provider) Service {
	return &postService{
		repo:  repo,
		graph: graph,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// CreatePost validates and stores a new post
func (s *postService) CreatePost(ctx context.Context, authorID uuid.UUID, req CreatePostRequest) (*Post, error) {
	if authorID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	if req.Option == "" {
		req.Option = OptionPublic
	}
	if !req.Option.Valid() {
		return nil, NewValidationError("option", "option must be one of: public, friend, private")
	}

	text := strings.TrimSpace(req.Text)
	if err := validateContent(text, req.Media); err != nil {
		return nil, err
	}

	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}

	status := StatusActive
	if req.GroupID != nil {
		if *req.GroupID == uuid.Nil {
			return nil, NewValidationError("groupId", "groupId must be a valid id")
		}
		groups, err := s.graph.GroupIDs(ctx, authorID)
		if err != nil {
			return nil, fmt.Errorf("failed to load group memberships: %w", err)
		}
		if !slices.Contains(groups, *req.GroupID) {
			return nil, ErrNotGroupMember
		}
		// Group posts wait for moderation in the group-manage feed
		status = StatusPending
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate post id: %w", err)
	}

	now := s.now()
	post := &Post{
		ID:        id,
		AuthorID:  authorID,
		GroupID:   req.GroupID,
		Text:      text,
		Media:     nonNil(req.Media),
		Option:    req.Option,
		Status:    status,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}

// GetPost returns the post if the viewer may see it. Invisible posts are
// reported as not found so their existence does not leak.
func (s *postService) GetPost(ctx context.Context, viewerID, postID uuid.UUID) (*Post, error) {
	if postID == uuid.Nil {
		return nil, NewValidationError("postId", "postId is required")
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	visible, err := s.canView(ctx, viewerID, post)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, NewNotFoundError("post", postID.String())
	}

	return post, nil
}

// UpdatePost applies an author's edit
func (s *postService) UpdatePost(ctx context.Context, userID, postID uuid.UUID, req UpdatePostRequest) (*Post, error) {
	post, err := s.loadOwned(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		post.Text = strings.TrimSpace(*req.Text)
	}
	if req.Media != nil {
		post.Media = nonNil(*req.Media)
	}
	if err := validateContent(post.Text, post.Media); err != nil {
		return nil, err
	}

	if req.Option != nil {
		if !req.Option.Valid() {
			return nil, NewValidationError("option", "option must be one of: public, friend, private")
		}
		post.Option = *req.Option
	}

	if req.Tags != nil {
		tags, err := normalizeTags(*req.Tags)
		if err != nil {
			return nil, err
		}
		post.Tags = tags
	}

	post.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return post, nil
}

// UpdateStatus changes the moderation flag of a post
func (s *postService) UpdateStatus(ctx context.Context, viewerID, postID uuid.UUID, status Status) error {
	if viewerID == uuid.Nil {
		return ErrUnauthorized
	}
	if postID == uuid.Nil {
		return NewValidationError("postId", "postId is required")
	}
	if !status.Valid() {
		return NewValidationError("status", "status must be one of: active, pending, rejected")
	}

	return s.repo.UpdateStatus(ctx, postID, status)
}

// DeletePost soft-deletes an author's post; its interactions go with it
func (s *postService) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, userID, postID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, postID)
}

func (s *postService) loadOwned(ctx context.Context, userID, postID uuid.UUID) (*Post, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if postID == uuid.Nil {
		return nil, NewValidationError("postId", "postId is required")
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, ErrForbidden
	}

	return post, nil
}

func (s *postService) canView(ctx context.Context, viewerID uuid.UUID, post *Post) (bool, error) {
	if viewerID == post.AuthorID {
		return true, nil
	}
	// Unmoderated posts are only visible to their author
	if post.Status != StatusActive {
		return false, nil
	}

	areFriends := false
	if post.Option == OptionFriend && viewerID != uuid.Nil {
		var err error
		areFriends, err = s.graph.AreFriends(ctx, viewerID, post.AuthorID)
		if err != nil {
			return false, fmt.Errorf("failed to resolve friendship: %w", err)
		}
	}

	return CanView(viewerID, post.AuthorID, post.Option, areFriends), nil
}

func validateContent(text string, media []string) error {
	if text == "" && len(media) == 0 {
		return NewValidationError("text", "post must have text or media")
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return NewValidationError("text", fmt.Sprintf("text must not exceed %d characters", MaxTextLength))
	}
	if len(media) > MaxMedia {
		return NewValidationError("media", fmt.Sprintf("a post may carry at most %d media items", MaxMedia))
	}
	for _, m := range media {
		if strings.TrimSpace(m) == "" {
			return NewValidationError("media", "media references must not be empty")
		}
	}
	return nil
}

// normalizeTags lowercases, trims and de-duplicates tags
func normalizeTags(raw []string) ([]string, error) {
	if len(raw) > MaxTags {
		return nil, NewValidationError("tags", fmt.Sprintf("a post may carry at most %d tags", MaxTags))
	}

	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "#")))
		if t == "" {
			continue
		}
		if utf8.RuneCountInString(t) > MaxTagLength {
			return nil, NewValidationError("tags", fmt.Sprintf("tags must not exceed %d characters", MaxTagLength))
		}
		if !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
