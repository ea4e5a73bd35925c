package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
)

// Fixed identities used by Seed so dev tokens stay valid across restarts
var (
	SeedAliceID  = uuid.MustParse("0190a000-0000-7000-8000-000000000001")
	SeedBobID    = uuid.MustParse("0190a000-0000-7000-8000-000000000002")
	SeedCarolID  = uuid.MustParse("0190a000-0000-7000-8000-000000000003")
	SeedGroupID  = uuid.MustParse("0190a000-0000-7000-8000-0000000000a1")
	seedTimeBase = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
)

// Seed loads a small social graph with a handful of posts for local
// development against the memory backend. Alice and Bob are friends, Carol
// follows Alice, and Alice and Carol share a group.
func Seed(ctx context.Context, s *Store) error {
	s.AddUser(SeedAliceID, "Alice")
	s.AddUser(SeedBobID, "Bob")
	s.AddUser(SeedCarolID, "Carol")
	s.AddFriendship(SeedAliceID, SeedBobID)
	s.AddFollow(SeedCarolID, SeedAliceID)
	s.AddGroup(SeedGroupID, "Go Readers")
	s.AddGroupMember(SeedGroupID, SeedAliceID)
	s.AddGroupMember(SeedGroupID, SeedCarolID)

	groupID := SeedGroupID
	seeds := []struct {
		group  *uuid.UUID
		text   string
		option posts.Option
		status posts.Status
		author uuid.UUID
	}{
		{author: SeedAliceID, text: "Hello from Alice", option: posts.OptionPublic, status: posts.StatusActive},
		{author: SeedAliceID, text: "Friends only update", option: posts.OptionFriend, status: posts.StatusActive},
		{author: SeedAliceID, text: "Private note", option: posts.OptionPrivate, status: posts.StatusActive},
		{author: SeedBobID, text: "Bob says hi", option: posts.OptionPublic, status: posts.StatusActive},
		{author: SeedCarolID, text: "Reading list for the week", option: posts.OptionPublic, status: posts.StatusActive, group: &groupID},
		{author: SeedAliceID, text: "Awaiting approval", option: posts.OptionPublic, status: posts.StatusPending, group: &groupID},
	}

	repo := NewPostRepository(s)
	for i, seed := range seeds {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate seed post id: %w", err)
		}
		created := seedTimeBase.Add(time.Duration(i) * time.Hour)
		post := &posts.Post{
			ID:        id,
			AuthorID:  seed.author,
			GroupID:   seed.group,
			Text:      seed.text,
			Option:    seed.option,
			Status:    seed.status,
			Media:     []string{},
			Tags:      []string{},
			CreatedAt: created,
			UpdatedAt: created,
		}
		if err := repo.Create(ctx, post); err != nil {
			return fmt.Errorf("failed to seed post %d: %w", i, err)
		}
	}

	return nil
}
