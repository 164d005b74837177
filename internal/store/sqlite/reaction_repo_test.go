package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"parley/internal/domain"
)

func Test_Reaction_Duplicate_Conflicts(t *testing.T) {
	req := require.New(t)
	repos := newTestRepos(t)
	ctx := context.Background()

	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")
	now := time.Now().UTC()
	conv := seedGroup(t, repos, "ops", now, alice.ID, bob.ID)
	msg := seedMessage(t, repos, conv.ID, alice.ID, "hello", now.Add(time.Second))

	r := &domain.Reaction{MessageID: msg.ID, UserID: bob.ID, Emoji: "👍", CreatedAt: now.Add(2 * time.Second)}
	req.NoError(repos.Reactions.Create(ctx, r))

	dup := &domain.Reaction{MessageID: msg.ID, UserID: bob.ID, Emoji: "👍", CreatedAt: now.Add(3 * time.Second)}
	req.ErrorIs(repos.Reactions.Create(ctx, dup), domain.ErrConflict)

	// A different emoji from the same user is its own row.
	other := &domain.Reaction{MessageID: msg.ID, UserID: bob.ID, Emoji: "🎉", CreatedAt: now.Add(3 * time.Second)}
	req.NoError(repos.Reactions.Create(ctx, other))
}

func Test_Reaction_Remove_Then_Re_Add(t *testing.T) {
	req := require.New(t)
	repos := newTestRepos(t)
	ctx := context.Background()

	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")
	now := time.Now().UTC()
	conv := seedGroup(t, repos, "ops", now, alice.ID, bob.ID)
	msg := seedMessage(t, repos, conv.ID, alice.ID, "hello", now.Add(time.Second))

	r := &domain.Reaction{MessageID: msg.ID, UserID: bob.ID, Emoji: "👍", CreatedAt: now.Add(2 * time.Second)}
	req.NoError(repos.Reactions.Create(ctx, r))

	removed, err := repos.Reactions.Delete(ctx, msg.ID, bob.ID, "👍")
	req.NoError(err)
	req.Equal("👍", removed.Emoji)
	req.True(r.CreatedAt.Equal(removed.CreatedAt))

	again := &domain.Reaction{MessageID: msg.ID, UserID: bob.ID, Emoji: "👍", CreatedAt: now.Add(4 * time.Second)}
	req.NoError(repos.Reactions.Create(ctx, again))
}

func Test_Reaction_Delete_Absent_NotFound(t *testing.T) {
	req := require.New(t)
	repos := newTestRepos(t)
	ctx := context.Background()

	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")
	now := time.Now().UTC()
	conv := seedGroup(t, repos, "ops", now, alice.ID, bob.ID)
	msg := seedMessage(t, repos, conv.ID, alice.ID, "hello", now.Add(time.Second))

	_, err := repos.Reactions.Delete(ctx, msg.ID, bob.ID, "👍")
	req.ErrorIs(err, domain.ErrNotFound)
}

func Test_Reaction_Unknown_Message_Rejected(t *testing.T) {
	req := require.New(t)
	repos := newTestRepos(t)
	ctx := context.Background()

	alice := seedUser(t, repos, "alice")
	r := &domain.Reaction{MessageID: 9999, UserID: alice.ID, Emoji: "👍", CreatedAt: time.Now().UTC()}
	req.ErrorIs(repos.Reactions.Create(ctx, r), domain.ErrInvalidInput)
}

func Test_Reaction_ListForMessages(t *testing.T) {
	req := require.New(t)
	repos := newTestRepos(t)
	ctx := context.Background()

	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")
	now := time.Now().UTC()
	conv := seedGroup(t, repos, "ops", now, alice.ID, bob.ID)
	first := seedMessage(t, repos, conv.ID, alice.ID, "first", now.Add(time.Second))
	second := seedMessage(t, repos, conv.ID, alice.ID, "second", now.Add(2*time.Second))
	third := seedMessage(t, repos, conv.ID, alice.ID, "third", now.Add(3*time.Second))

	req.NoError(repos.Reactions.Create(ctx, &domain.Reaction{MessageID: first.ID, UserID: bob.ID, Emoji: "👍", CreatedAt: now.Add(4 * time.Second)}))
	req.NoError(repos.Reactions.Create(ctx, &domain.Reaction{MessageID: second.ID, UserID: alice.ID, Emoji: "🎉", CreatedAt: now.Add(5 * time.Second)}))
	req.NoError(repos.Reactions.Create(ctx, &domain.Reaction{MessageID: second.ID, UserID: bob.ID, Emoji: "🎉", CreatedAt: now.Add(6 * time.Second)}))
	// third's reaction stays out of the requested set.
	req.NoError(repos.Reactions.Create(ctx, &domain.Reaction{MessageID: third.ID, UserID: bob.ID, Emoji: "👀", CreatedAt: now.Add(7 * time.Second)}))

	got, err := repos.Reactions.ListForMessages(ctx, []int64{first.ID, second.ID})
	req.NoError(err)
	req.Len(got, 3)
	for _, r := range got {
		req.NotEqual(third.ID, r.MessageID)
	}

	empty, err := repos.Reactions.ListForMessages(ctx, nil)
	req.NoError(err)
	req.Empty(empty)
}
