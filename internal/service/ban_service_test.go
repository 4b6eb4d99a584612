package service

import (
	"context"
	"testing"

	"campfire/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBanService_BanTwiceCreatesTwoRecords(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id}, nil
	}
	var created []*models.BannedUser
	bans := noopBanRepo()
	bans.createFn = func(_ context.Context, b *models.BannedUser) error {
		b.ID = uint(len(created) + 1)
		created = append(created, b)
		return nil
	}
	svc := NewBanService(bans, users, nil)

	first, err := svc.Ban(context.Background(), 1, 7, " spam ")
	require.NoError(t, err)
	second, err := svc.Ban(context.Background(), 1, 7, "spam again")
	require.NoError(t, err)

	require.Len(t, created, 2)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "spam", first.Description)
	require.NotNil(t, first.BannedByID)
	assert.Equal(t, uint(1), *first.BannedByID)
}

func TestBanService_MissingUser(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError("User", id)
	}
	bans := noopBanRepo()
	bans.createFn = func(context.Context, *models.BannedUser) error {
		t.Fatal("create must not be called")
		return nil
	}
	svc := NewBanService(bans, users, nil)

	_, err := svc.Ban(context.Background(), 1, 404, "")
	assertAppErrorCode(t, err, models.CodeNotFound)

	_, err = svc.Ban(context.Background(), 1, 0, "")
	assertAppErrorCode(t, err, models.CodeValidation)

	_, err = svc.List(context.Background(), 404, 10, 0)
	assertAppErrorCode(t, err, models.CodeNotFound)
}
