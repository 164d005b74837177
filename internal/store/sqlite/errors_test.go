package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"parley/internal/domain"
)

func Test_Closed_Handle_Surfaces_Unavailable(t *testing.T) {
	req := require.New(t)
	db, err := Open(filepath.Join(t.TempDir(), "parley_test.db"))
	req.NoError(err)
	req.NoError(Migrate(db))
	repos := NewRepositories(db)

	alice := seedUser(t, repos, "alice")
	req.NoError(db.Close())

	ctx := context.Background()

	// Reads and writes alike funnel through translate on the way out.
	_, err = repos.Users.GetByID(ctx, alice.ID)
	req.ErrorIs(err, domain.ErrUnavailable)

	_, err = repos.Conversations.ListForUser(ctx, alice.ID)
	req.ErrorIs(err, domain.ErrUnavailable)

	m := &domain.Message{ConversationID: 1, SenderID: &alice.ID, Text: "hello"}
	req.ErrorIs(repos.Messages.Create(ctx, m), domain.ErrUnavailable)
}
