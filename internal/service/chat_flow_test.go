package service_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"parley/internal/domain"
	"parley/internal/service"
	"parley/internal/store"
	"parley/internal/store/sqlite"
)

func newChatOverSQLite(t *testing.T) (*service.Chat, *store.Repositories) {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "chat_flow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(db))

	repos := sqlite.NewRepositories(db)
	chat := service.NewChat(
		service.NewConversationService(repos.Conversations, repos.Participants),
		service.NewParticipantService(repos.Conversations, repos.Participants),
		service.NewMessageService(repos.Conversations, repos.Participants, repos.Messages, repos.Reactions, 50, 200),
		service.NewReactionService(repos.Messages, repos.Reactions),
		service.NewBookmarkService(repos.Messages, repos.Bookmarks),
	)
	return chat, repos
}

// TestChatLifecycle drives one conversation through the whole facade against
// real storage: creation, messages, a join and a leave with their notices,
// reactions, bookmarks, and a paged read-back by a member who already left.
func TestChatLifecycle(t *testing.T) {
	req := require.New(t)
	chat, repos := newChatOverSQLite(t)
	ctx := context.Background()

	mkUser := func(name string) *domain.User {
		u := &domain.User{Username: name, HashedPassword: "$2a$04$test", CreatedAt: time.Now().UTC()}
		req.NoError(repos.Users.Create(ctx, u))
		return u
	}
	alice := mkUser("alice")
	bob := mkUser("bob")
	carol := mkUser("carol")

	// Alice opens a group naming only Bob; she is included on her own.
	name := "launch crew"
	conv, err := chat.CreateConversation(ctx, alice.ID, service.ConversationCreateInput{
		Kind:           domain.KindGroup,
		Name:           &name,
		ParticipantIDs: []int64{bob.ID},
	})
	req.NoError(err)

	detail, err := chat.GetConversation(ctx, alice.ID, conv.ID)
	req.NoError(err)
	req.Len(detail.Participants, 2)

	// Carol is nobody here yet.
	_, err = chat.GetConversation(ctx, carol.ID, conv.ID)
	req.ErrorIs(err, domain.ErrForbidden)
	_, err = chat.SendMessage(ctx, carol.ID, conv.ID, "let me in")
	req.ErrorIs(err, domain.ErrForbidden)

	first, err := chat.SendMessage(ctx, alice.ID, conv.ID, "kickoff at nine")
	req.NoError(err)
	_, err = chat.SendMessage(ctx, bob.ID, conv.ID, "works for me")
	req.NoError(err)

	// Bob reacts once; the identical second reaction conflicts.
	_, err = chat.AddReaction(ctx, bob.ID, first.ID, "👍")
	req.NoError(err)
	_, err = chat.AddReaction(ctx, bob.ID, first.ID, "👍")
	req.ErrorIs(err, domain.ErrConflict)

	// Bob invites Carol; the join notice lands in the timeline.
	joined, err := chat.AddParticipant(ctx, bob.ID, conv.ID, carol.ID, "")
	req.NoError(err)
	req.Equal(domain.RoleMember, joined.Role)

	_, err = chat.AddParticipant(ctx, bob.ID, conv.ID, carol.ID, "")
	req.ErrorIs(err, domain.ErrConflict)

	_, err = chat.SendMessage(ctx, carol.ID, conv.ID, "thanks for adding me")
	req.NoError(err)

	// Carol bookmarks the kickoff message.
	_, err = chat.AddBookmark(ctx, carol.ID, first.ID)
	req.NoError(err)
	_, err = chat.AddBookmark(ctx, carol.ID, first.ID)
	req.ErrorIs(err, domain.ErrConflict)

	// Carol leaves on her own; leaving twice finds no active row.
	gone, err := chat.RemoveParticipant(ctx, carol.ID, conv.ID, carol.ID)
	req.NoError(err)
	req.NotNil(gone.LeftAt)
	_, err = chat.RemoveParticipant(ctx, carol.ID, conv.ID, carol.ID)
	req.ErrorIs(err, domain.ErrNotFound)

	// Gone from the active roster, still present in history.
	req.Empty(mustList(t, ctx, chat, carol.ID))
	detail, err = chat.GetConversation(ctx, alice.ID, conv.ID)
	req.NoError(err)
	req.Len(detail.Participants, 3)

	// She reads history but cannot write.
	_, err = chat.SendMessage(ctx, carol.ID, conv.ID, "one more thing")
	req.ErrorIs(err, domain.ErrForbidden)

	var texts []string
	var systemEvents []domain.SystemEvent
	var cursor *domain.MessageCursor
	for {
		page, err := chat.ListMessages(ctx, carol.ID, conv.ID, cursor, 2)
		req.NoError(err)
		for _, m := range page.Messages {
			texts = append(texts, m.Text)
			if m.SystemEvent != nil {
				systemEvents = append(systemEvents, *m.SystemEvent)
			}
			if m.ID == first.ID {
				req.Len(m.Reactions, 1)
				req.Equal("👍", m.Reactions[0].Emoji)
			}
		}
		if page.NextCursor == nil {
			break
		}
		cur, err := domain.ParseMessageCursor(*page.NextCursor)
		req.NoError(err)
		cursor = &cur
	}

	// Three user messages plus the join and leave notices, newest first.
	req.Equal([]string{
		fmt.Sprintf("user %d left the conversation", carol.ID),
		"thanks for adding me",
		fmt.Sprintf("user %d joined the conversation", carol.ID),
		"works for me",
		"kickoff at nine",
	}, texts)
	req.Equal([]domain.SystemEvent{domain.EventLeave, domain.EventJoin}, systemEvents)

	// Her bookmark outlived the membership.
	saved, err := chat.ListBookmarks(ctx, carol.ID)
	req.NoError(err)
	req.Len(saved, 1)
	req.Equal(first.ID, saved[0].MessageID)
	req.Equal("kickoff at nine", saved[0].Message.Text)
}

func mustList(t *testing.T, ctx context.Context, chat *service.Chat, userID int64) []*domain.ConversationSummary {
	t.Helper()
	list, err := chat.ListConversations(ctx, userID)
	require.NoError(t, err)
	return list
}
