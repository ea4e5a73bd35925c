package posts

import (
	"slices"

	"github.com/google/uuid"
)

// GroupScope restricts a query to personal posts, group posts, or both
type GroupScope int

const (
	AnyPosts GroupScope = iota
	PersonalPosts
	GroupPosts
)

// Filter is the store-neutral description of a post query. A nil id slice
// means "no constraint"; a non-nil empty slice matches nothing. Every
// non-zero field is ANDed. Soft-deleted posts never match.
type Filter struct {
	// Visibility applies the per-viewer resolver to every candidate author
	Visibility *Visibility
	// InteractedBy keeps only posts the user has an interaction of the given type on
	InteractedBy *InteractionRef
	AuthorIDs    []uuid.UUID
	GroupIDs     []uuid.UUID
	Statuses     []Status
	// Options is an explicit allow-list of visibility options
	Options []Option
	Tag     string
	Scope   GroupScope
}

// InteractionRef names a (user, interaction type) pair
type InteractionRef struct {
	Type   string
	UserID uuid.UUID
}

// MatchesNothing reports whether the filter is guaranteed to select no rows,
// letting callers skip the store round trip
func (f *Filter) MatchesNothing() bool {
	return (f.AuthorIDs != nil && len(f.AuthorIDs) == 0) ||
		(f.GroupIDs != nil && len(f.GroupIDs) == 0) ||
		(f.Statuses != nil && len(f.Statuses) == 0) ||
		(f.Options != nil && len(f.Options) == 0)
}

// Matches evaluates every constraint except InteractedBy, which needs the
// interaction store. Stores without a query language use it directly.
func (f *Filter) Matches(p *Post) bool {
	if p.DeletedAt != nil {
		return false
	}
	if f.AuthorIDs != nil && !slices.Contains(f.AuthorIDs, p.AuthorID) {
		return false
	}
	if f.GroupIDs != nil && (p.GroupID == nil || !slices.Contains(f.GroupIDs, *p.GroupID)) {
		return false
	}
	if f.Statuses != nil && !slices.Contains(f.Statuses, p.Status) {
		return false
	}
	if f.Options != nil && !slices.Contains(f.Options, p.Option) {
		return false
	}
	switch f.Scope {
	case PersonalPosts:
		if p.GroupID != nil {
			return false
		}
	case GroupPosts:
		if p.GroupID == nil {
			return false
		}
	}
	if f.Tag != "" && !slices.Contains(p.Tags, f.Tag) {
		return false
	}
	if f.Visibility != nil && !f.Visibility.Allows(p.AuthorID, p.Option) {
		return false
	}
	return true
}
