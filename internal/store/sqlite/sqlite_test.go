package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"parley/internal/domain"
	"parley/internal/store"
)

func newTestRepos(t *testing.T) *store.Repositories {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "parley_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(db))
	return NewRepositories(db)
}

func seedUser(t *testing.T, repos *store.Repositories, username string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, HashedPassword: "$2a$04$test", CreatedAt: time.Now().UTC()}
	require.NoError(t, repos.Users.Create(context.Background(), u))
	return u
}

func seedGroup(t *testing.T, repos *store.Repositories, name string, at time.Time, userIDs ...int64) *domain.Conversation {
	t.Helper()
	conv := &domain.Conversation{Kind: domain.KindGroup, Name: &name, CreatedAt: at}
	members := make([]*domain.Participant, len(userIDs))
	for i, id := range userIDs {
		members[i] = &domain.Participant{UserID: id, Role: domain.RoleMember, JoinedAt: at}
	}
	require.NoError(t, repos.Conversations.Create(context.Background(), conv, members))
	return conv
}

func seedMessage(t *testing.T, repos *store.Repositories, convID, senderID int64, text string, at time.Time) *domain.Message {
	t.Helper()
	m := &domain.Message{ConversationID: convID, SenderID: &senderID, Text: text, CreatedAt: at}
	require.NoError(t, repos.Messages.Create(context.Background(), m))
	return m
}
