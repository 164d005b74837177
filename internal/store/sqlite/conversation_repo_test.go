package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"parley/internal/domain"
)

func Test_Conversation_Create_Persists_Members_Atomically(t *testing.T) {
	req := require.New(t)
	repos := newTestRepos(t)
	ctx := context.Background()

	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")
	carol := seedUser(t, repos, "carol")

	now := time.Now().UTC()
	conv := seedGroup(t, repos, "ops", now, alice.ID, bob.ID, carol.ID)
	req.NotZero(conv.ID)

	got, err := repos.Conversations.GetByID(ctx, conv.ID)
	req.NoError(err)
	req.Equal(domain.KindGroup, got.Kind)
	req.Equal("ops", *got.Name)
	req.True(now.Equal(got.CreatedAt))

	members, err := repos.Participants.ListForConversation(ctx, conv.ID)
	req.NoError(err)
	req.Len(members, 3)
	for _, m := range members {
		req.Equal(conv.ID, m.ConversationID)
		req.NotZero(m.ID)
		req.True(m.Active())
	}
}

func Test_Conversation_Absent_Is_Nil(t *testing.T) {
	req := require.New(t)
	repos := newTestRepos(t)

	c, err := repos.Conversations.GetByID(context.Background(), 9999)
	req.NoError(err)
	req.Nil(c)
}

func Test_Conversation_ListForUser_Orders_By_Activity(t *testing.T) {
	req := require.New(t)
	repos := newTestRepos(t)
	ctx := context.Background()

	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")

	base := time.Now().UTC().Add(-time.Hour)
	older := seedGroup(t, repos, "older", base, alice.ID, bob.ID)
	newer := seedGroup(t, repos, "newer", base.Add(time.Minute), alice.ID, bob.ID)

	// Without messages the newer conversation leads.
	list, err := repos.Conversations.ListForUser(ctx, alice.ID)
	req.NoError(err)
	req.Len(list, 2)
	req.Equal(newer.ID, list[0].ID)
	req.Nil(list[0].LastMessageAt)

	// A message in the older conversation moves it to the top.
	sent := base.Add(2 * time.Minute)
	seedMessage(t, repos, older.ID, bob.ID, "ping", sent)

	list, err = repos.Conversations.ListForUser(ctx, alice.ID)
	req.NoError(err)
	req.Equal(older.ID, list[0].ID)
	req.NotNil(list[0].LastMessageAt)
	req.True(sent.Equal(*list[0].LastMessageAt))
}

func Test_Conversation_ListForUser_Excludes_Left_Memberships(t *testing.T) {
	req := require.New(t)
	repos := newTestRepos(t)
	ctx := context.Background()

	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")

	now := time.Now().UTC()
	conv := seedGroup(t, repos, "ops", now, alice.ID, bob.ID)

	_, err := repos.Participants.SetLeft(ctx, conv.ID, alice.ID, now.Add(time.Minute))
	req.NoError(err)

	list, err := repos.Conversations.ListForUser(ctx, alice.ID)
	req.NoError(err)
	req.Empty(list)

	// The remaining member still sees it.
	list, err = repos.Conversations.ListForUser(ctx, bob.ID)
	req.NoError(err)
	req.Len(list, 1)
}
