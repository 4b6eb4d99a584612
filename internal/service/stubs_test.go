package service

import (
	"context"
	"testing"

	"campfire/internal/models"
	"campfire/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userRepoStub struct {
	getByIDFn        func(context.Context, uint) (*models.User, error)
	getByUsernameFn  func(context.Context, string) (*models.User, error)
	getByEmailFn     func(context.Context, string) (*models.User, error)
	getProfileFn     func(context.Context, string) (*models.User, error)
	usernameExistsFn func(context.Context, string) (bool, error)
	emailExistsFn    func(context.Context, string) (bool, error)
	createFn         func(context.Context, *models.User) error
	updateProfileFn  func(context.Context, *models.User) error
	deleteFn         func(context.Context, *models.User) error
	listFn           func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetProfile(ctx context.Context, username string) (*models.User, error) {
	return s.getProfileFn(ctx, username)
}
func (s *userRepoStub) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.usernameExistsFn(ctx, username)
}
func (s *userRepoStub) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.emailExistsFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) UpdateProfile(ctx context.Context, user *models.User) error {
	return s.updateProfileFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, user *models.User) error {
	return s.deleteFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:        func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn:  func(context.Context, string) (*models.User, error) { return nil, nil },
		getByEmailFn:     func(context.Context, string) (*models.User, error) { return nil, nil },
		getProfileFn:     func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		usernameExistsFn: func(context.Context, string) (bool, error) { return false, nil },
		emailExistsFn:    func(context.Context, string) (bool, error) { return false, nil },
		createFn:         func(context.Context, *models.User) error { return nil },
		updateProfileFn:  func(context.Context, *models.User) error { return nil },
		deleteFn:         func(context.Context, *models.User) error { return nil },
		listFn:           func(context.Context, int, int) ([]models.User, error) { return nil, nil },
	}
}

type banRepoStub struct {
	createFn   func(context.Context, *models.BannedUser) error
	listFn     func(context.Context, uint, int, int) ([]models.BannedUser, error)
	isBannedFn func(context.Context, uint) (bool, error)
}

func (s *banRepoStub) Create(ctx context.Context, ban *models.BannedUser) error {
	return s.createFn(ctx, ban)
}
func (s *banRepoStub) List(ctx context.Context, userID uint, limit, offset int) ([]models.BannedUser, error) {
	return s.listFn(ctx, userID, limit, offset)
}
func (s *banRepoStub) IsBanned(ctx context.Context, userID uint) (bool, error) {
	return s.isBannedFn(ctx, userID)
}

func noopBanRepo() *banRepoStub {
	return &banRepoStub{
		createFn:   func(context.Context, *models.BannedUser) error { return nil },
		listFn:     func(context.Context, uint, int, int) ([]models.BannedUser, error) { return nil, nil },
		isBannedFn: func(context.Context, uint) (bool, error) { return false, nil },
	}
}

type campRepoStub struct {
	getByOwnerIDFn   func(context.Context, uint) (*models.CampProfile, error)
	createFn         func(context.Context, *models.CampProfile) error
	isFollowerFn     func(context.Context, uint, uint) (bool, error)
	toggleFollowerFn func(context.Context, uint, uint) (bool, error)
	countFollowersFn func(context.Context, uint) (int64, error)
	listFollowersFn  func(context.Context, uint, int, int) ([]models.User, error)
}

func (s *campRepoStub) GetByOwnerID(ctx context.Context, ownerID uint) (*models.CampProfile, error) {
	return s.getByOwnerIDFn(ctx, ownerID)
}
func (s *campRepoStub) Create(ctx context.Context, camp *models.CampProfile) error {
	return s.createFn(ctx, camp)
}
func (s *campRepoStub) IsFollower(ctx context.Context, campID, userID uint) (bool, error) {
	return s.isFollowerFn(ctx, campID, userID)
}
func (s *campRepoStub) ToggleFollower(ctx context.Context, campID, userID uint) (bool, error) {
	return s.toggleFollowerFn(ctx, campID, userID)
}
func (s *campRepoStub) CountFollowers(ctx context.Context, campID uint) (int64, error) {
	return s.countFollowersFn(ctx, campID)
}
func (s *campRepoStub) ListFollowers(ctx context.Context, campID uint, limit, offset int) ([]models.User, error) {
	return s.listFollowersFn(ctx, campID, limit, offset)
}

type postRepoStub struct {
	queryFn   func(context.Context, repository.PostQuery) ([]models.Post, int64, error)
	getByIDFn func(context.Context, uint) (*models.Post, error)
	createFn  func(context.Context, *models.Post) error
	updateFn  func(context.Context, *models.Post) error
	deleteFn  func(context.Context, uint) error
}

func (s *postRepoStub) Query(ctx context.Context, q repository.PostQuery) ([]models.Post, int64, error) {
	return s.queryFn(ctx, q)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, models.ErrorCode(err))
}

func strPtr(s string) *string { return &s }
