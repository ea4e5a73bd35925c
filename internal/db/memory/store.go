// Package memory is an in-process implementation of the repository
// contracts. Each Store behaves like one database: every repository built on
// it shares the same lock, so the interaction toggle and its counter update
// are applied as one step.
package memory

import (
	"bytes"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/huydotcode/handbook-server-sub001/internal/core/interactions"
	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

type user struct {
	avatar *string
	name   string
	id     uuid.UUID
}

type group struct {
	avatar  *string
	name    string
	id      uuid.UUID
	members map[uuid.UUID]struct{}
}

type interactionKey struct {
	t      interactions.Type
	postID uuid.UUID
	userID uuid.UUID
}

// Store holds all in-memory tables
type Store struct {
	users        map[uuid.UUID]*user
	groups       map[uuid.UUID]*group
	friends      map[uuid.UUID]map[uuid.UUID]struct{}
	following    map[uuid.UUID]map[uuid.UUID]struct{}
	posts        map[uuid.UUID]*posts.Post
	interactions map[interactionKey]*interactions.Interaction
	mu           sync.RWMutex
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:        make(map[uuid.UUID]*user),
		groups:       make(map[uuid.UUID]*group),
		friends:      make(map[uuid.UUID]map[uuid.UUID]struct{}),
		following:    make(map[uuid.UUID]map[uuid.UUID]struct{}),
		posts:        make(map[uuid.UUID]*posts.Post),
		interactions: make(map[interactionKey]*interactions.Interaction),
	}
}

// AddUser registers a user so their posts can be hydrated
func (s *Store) AddUser(id uuid.UUID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = &user{id: id, name: name}
}

// AddGroup registers a group
func (s *Store) AddGroup(id uuid.UUID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[id] = &group{id: id, name: name, members: make(map[uuid.UUID]struct{})}
}

// AddGroupMember adds userID to an existing group
func (s *Store) AddGroupMember(groupID, userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.groups[groupID]; ok {
		g.members[userID] = struct{}{}
	}
}

// AddFriendship records a symmetric friendship
func (s *Store) AddFriendship(a, b uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link(s.friends, a, b)
	link(s.friends, b, a)
}

// AddFollow records that follower follows following
func (s *Store) AddFollow(follower, following uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link(s.following, follower, following)
}

func link(edges map[uuid.UUID]map[uuid.UUID]struct{}, from, to uuid.UUID) {
	if edges[from] == nil {
		edges[from] = make(map[uuid.UUID]struct{})
	}
	edges[from][to] = struct{}{}
}

// hydrate returns a detached copy of p with author and group attached, or
// false when either reference dangles (mirrors the SQL inner joins)
func (s *Store) hydrate(p *posts.Post) (*posts.Post, bool) {
	u, ok := s.users[p.AuthorID]
	if !ok {
		return nil, false
	}

	out := *p
	out.Media = append([]string{}, p.Media...)
	out.Tags = append([]string{}, p.Tags...)
	out.Author = &posts.AuthorView{ID: u.id, Name: u.name, Avatar: u.avatar}

	if p.GroupID != nil {
		g, ok := s.groups[*p.GroupID]
		if !ok {
			return nil, false
		}
		groupID := *p.GroupID
		out.GroupID = &groupID
		out.Group = &posts.GroupView{ID: g.id, Name: g.name, Avatar: g.avatar}
	}

	return &out, true
}

// newerFirst orders by created_at DESC, id DESC
func newerFirst(a, b *posts.Post) int {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	}
	return -bytes.Compare(a.ID[:], b.ID[:])
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
