package posts

import (
	"time"

	"github.com/google/uuid"
)

// Option controls who may see a post outside its feed-membership filter
type Option string

const (
	OptionPublic  Option = "public"
	OptionFriend  Option = "friend"
	OptionPrivate Option = "private"
)

// Valid reports whether o is a known visibility option
func (o Option) Valid() bool {
	switch o {
	case OptionPublic, OptionFriend, OptionPrivate:
		return true
	}
	return false
}

// Status is the moderation state of a post
type Status string

const (
	StatusActive   Status = "active"
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPending, StatusRejected:
		return true
	}
	return false
}

// Post represents a post row together with its hydrated author/group.
// LovesCount and SharesCount are denormalized from post_interactions and are
// only ever changed by the interaction store's atomic adjustments.
type Post struct {
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	DeletedAt     *time.Time  `json:"-"`
	GroupID       *uuid.UUID  `json:"groupId,omitempty"`
	Author        *AuthorView `json:"author,omitempty"`
	Group         *GroupView  `json:"group,omitempty"`
	Text          string      `json:"text"`
	Option        Option      `json:"option"`
	Status        Status      `json:"status"`
	Media         []string    `json:"media"`
	Tags          []string    `json:"tags"`
	ID            uuid.UUID   `json:"id"`
	AuthorID      uuid.UUID   `json:"authorId"`
	LovesCount    int         `json:"lovesCount"`
	SharesCount   int         `json:"sharesCount"`
	CommentsCount int         `json:"commentsCount"`
}

// IsGroupPost reports whether the post belongs to a group
func (p *Post) IsGroupPost() bool {
	return p.GroupID != nil
}

// AuthorView is the author summary joined into post reads
type AuthorView struct {
	Avatar *string   `json:"avatar,omitempty"`
	Name   string    `json:"name"`
	ID     uuid.UUID `json:"id"`
}

// GroupView is the group summary joined into post reads
type GroupView struct {
	Avatar *string   `json:"avatar,omitempty"`
	Name   string    `json:"name"`
	ID     uuid.UUID `json:"id"`
}

// CreatePostRequest represents input for creating a post
type CreatePostRequest struct {
	GroupID *uuid.UUID `json:"groupId,omitempty"`
	Text    string     `json:"text"`
	Option  Option     `json:"option"`
	Media   []string   `json:"media,omitempty"`
	Tags    []string   `json:"tags,omitempty"`
}

// UpdatePostRequest carries the fields an author may edit; nil means unchanged
type UpdatePostRequest struct {
	Text   *string   `json:"text,omitempty"`
	Option *Option   `json:"option,omitempty"`
	Media  *[]string `json:"media,omitempty"`
	Tags   *[]string `json:"tags,omitempty"`
}
