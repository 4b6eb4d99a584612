package repository

import (
	"context"
	"testing"

	"campfire/internal/models"
	"campfire/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBanRepository_CreateIsAppendOnly(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBanRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "troublemaker", "trouble@example.com")
	bystander := testutil.CreateUser(t, db, "bystander", "by@example.com")

	banned, err := repo.IsBanned(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, banned)

	require.NoError(t, repo.Create(ctx, &models.BannedUser{UserID: user.ID, Description: "first"}))
	require.NoError(t, repo.Create(ctx, &models.BannedUser{UserID: user.ID, Description: "second"}))

	bans, err := repo.List(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, bans, 2)
	require.NotNil(t, bans[0].User)
	assert.Equal(t, "troublemaker", bans[0].User.Username)

	banned, err = repo.IsBanned(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, banned)

	banned, err = repo.IsBanned(ctx, bystander.ID)
	require.NoError(t, err)
	assert.False(t, banned)

	all, err := repo.List(ctx, 0, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
