package interactions

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

// Type is the kind of a post interaction
type Type string

const (
	TypeLove  Type = "love"
	TypeShare Type = "share"
	TypeSave  Type = "save"
)

// AllTypes lists every interaction type, in annotation order
var AllTypes = []Type{TypeLove, TypeShare, TypeSave}

// Valid reports whether t is a known interaction type
func (t Type) Valid() bool {
	switch t {
	case TypeLove, TypeShare, TypeSave:
		return true
	}
	return false
}

// HasCounter reports whether the post carries a denormalized counter for t.
// Saves are private to the user and are not counted on the post.
func (t Type) HasCounter() bool {
	return t == TypeLove || t == TypeShare
}

// ParseType converts user input ("LOVE", "love") into a Type
func ParseType(raw string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", posts.NewValidationError("type", "type must be one of: love, share, save")
	}
	return t, nil
}

// Interaction is a (post, user, type) record. At most one exists per triple;
// it is created by the first toggle and destroyed by the next.
type Interaction struct {
	CreatedAt time.Time `json:"createdAt"`
	Type      Type      `json:"type"`
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"postId"`
	UserID    uuid.UUID `json:"userId"`
}

// Action is the outcome of a toggle
type Action string

const (
	ActionAdded   Action = "added"
	ActionRemoved Action = "removed"
)

// ToggleResult is returned by ToggleInteraction. Interaction is set when the
// record was added.
type ToggleResult struct {
	Interaction *Interaction `json:"interaction,omitempty"`
	Action      Action       `json:"action"`
}

// PostWithInteraction is a post annotated with the viewer's interaction flags
type PostWithInteraction struct {
	*posts.Post
	UserHasLoved  bool `json:"userHasLoved"`
	UserHasShared bool `json:"userHasShared"`
	UserHasSaved  bool `json:"userHasSaved"`
}

func (p *PostWithInteraction) set(t Type) {
	switch t {
	case TypeLove:
		p.UserHasLoved = true
	case TypeShare:
		p.UserHasShared = true
	case TypeSave:
		p.UserHasSaved = true
	}
}
