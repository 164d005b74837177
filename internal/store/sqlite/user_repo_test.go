package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"parley/internal/domain"
)

func Test_User_Create_And_Lookup(t *testing.T) {
	req := require.New(t)
	repos := newTestRepos(t)
	ctx := context.Background()

	alice := seedUser(t, repos, "alice")
	req.NotZero(alice.ID)

	byID, err := repos.Users.GetByID(ctx, alice.ID)
	req.NoError(err)
	req.Equal(alice.Username, byID.Username)
	req.True(alice.CreatedAt.Equal(byID.CreatedAt))

	byName, err := repos.Users.GetByUsername(ctx, "alice")
	req.NoError(err)
	req.Equal(alice.ID, byName.ID)
}

func Test_User_Absent_Is_Nil(t *testing.T) {
	req := require.New(t)
	repos := newTestRepos(t)
	ctx := context.Background()

	u, err := repos.Users.GetByID(ctx, 12345)
	req.NoError(err)
	req.Nil(u)

	u, err = repos.Users.GetByUsername(ctx, "nobody")
	req.NoError(err)
	req.Nil(u)
}

func Test_User_Duplicate_Username_Conflicts(t *testing.T) {
	req := require.New(t)
	repos := newTestRepos(t)
	ctx := context.Background()

	seedUser(t, repos, "alice")

	dup := &domain.User{Username: "alice", HashedPassword: "$2a$04$other"}
	err := repos.Users.Create(ctx, dup)
	req.ErrorIs(err, domain.ErrConflict)
}
