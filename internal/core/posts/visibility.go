package posts

import "github.com/google/uuid"

// CanView decides whether viewer may see a post by author with the given
// option. viewer is uuid.Nil for anonymous requests. areFriends comes from
// the social graph.
func CanView(viewer, author uuid.UUID, option Option, areFriends bool) bool {
	if viewer != uuid.Nil && viewer == author {
		return true
	}

	switch option {
	case OptionPublic:
		return true
	case OptionFriend:
		return viewer != uuid.Nil && areFriends
	default:
		return false
	}
}

// VisibleOptions returns the options of author's posts that viewer may see.
// This is CanView folded into a set, so it can be pushed into a store filter.
func VisibleOptions(viewer, author uuid.UUID, areFriends bool) []Option {
	all := []Option{OptionPublic, OptionFriend, OptionPrivate}
	visible := make([]Option, 0, len(all))
	for _, opt := range all {
		if CanView(viewer, author, opt, areFriends) {
			visible = append(visible, opt)
		}
	}
	return visible
}

// Visibility is the multi-author form of the resolver: the viewer plus the
// viewer's precomputed friend-id set.
type Visibility struct {
	FriendIDs []uuid.UUID
	ViewerID  uuid.UUID
}

// Allows applies CanView using the friend-id set
func (v *Visibility) Allows(author uuid.UUID, option Option) bool {
	return CanView(v.ViewerID, author, option, containsID(v.FriendIDs, author))
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
