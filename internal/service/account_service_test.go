package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"campfire/internal/models"
	"campfire/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const strongPassword = "Campfire#2024!"

func newTestAccountService(users *userRepoStub, bans *banRepoStub) *AccountService {
	svc := NewAccountService(users, bans, validation.NewMessages("tr"))
	svc.hashCost = bcrypt.MinCost
	return svc
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAccountService_Register(t *testing.T) {
	t.Parallel()

	t.Run("valid input hashes password", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		var saved *models.User
		repo.createFn = func(_ context.Context, u *models.User) error {
			u.ID = 10
			saved = u
			return nil
		}
		svc := newTestAccountService(repo, noopBanRepo())

		user, err := svc.Register(context.Background(), RegisterInput{
			Username: "  happycamper ",
			Email:    "happy@example.com",
			Password: strongPassword,
			Gender:   "Female",
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "happycamper", user.Username)
		assert.Equal(t, models.GenderFemale, user.Gender)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte(strongPassword)))
	})

	t.Run("invalid fields are reported together", func(t *testing.T) {
		t.Parallel()
		svc := newTestAccountService(noopUserRepo(), noopBanRepo())
		_, err := svc.Register(context.Background(), RegisterInput{
			Username: "abc",
			Email:    "not-an-email",
			Password: "short",
			Gender:   "robot",
		})
		assertAppErrorCode(t, err, models.CodeValidation)

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		for _, field := range []string{"username", "email", "password", "gender"} {
			assert.Contains(t, appErr.Fields, field)
		}
	})

	t.Run("taken username or email is a conflict", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.usernameExistsFn = func(context.Context, string) (bool, error) { return true, nil }
		repo.createFn = func(context.Context, *models.User) error {
			t.Fatal("create must not be called")
			return nil
		}
		svc := newTestAccountService(repo, noopBanRepo())

		_, err := svc.Register(context.Background(), RegisterInput{
			Username: "takenname",
			Email:    "fresh@example.com",
			Password: strongPassword,
		})
		assertAppErrorCode(t, err, models.CodeConflict)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Contains(t, appErr.Fields, "username")
		assert.NotContains(t, appErr.Fields, "email")
	})
}

func TestAccountService_Authenticate(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: 3, Username: "happycamper", Email: "happy@example.com", Password: hashed(t, strongPassword)}

	repo := noopUserRepo()
	repo.getByUsernameFn = func(_ context.Context, name string) (*models.User, error) {
		if name == user.Username {
			u := *user
			return &u, nil
		}
		return nil, nil
	}
	repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		if email == user.Email {
			u := *user
			return &u, nil
		}
		return nil, nil
	}

	t.Run("by username", func(t *testing.T) {
		t.Parallel()
		svc := newTestAccountService(repo, noopBanRepo())
		got, err := svc.Authenticate(context.Background(), "happycamper", strongPassword)
		require.NoError(t, err)
		assert.Equal(t, uint(3), got.ID)
	})

	t.Run("by email", func(t *testing.T) {
		t.Parallel()
		svc := newTestAccountService(repo, noopBanRepo())
		got, err := svc.Authenticate(context.Background(), "happy@example.com", strongPassword)
		require.NoError(t, err)
		assert.Equal(t, uint(3), got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		svc := newTestAccountService(repo, noopBanRepo())
		_, err := svc.Authenticate(context.Background(), "happycamper", "Wrong#Password1")
		assertAppErrorCode(t, err, models.CodeUnauthorized)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		svc := newTestAccountService(repo, noopBanRepo())
		_, err := svc.Authenticate(context.Background(), "nobody_here", strongPassword)
		assertAppErrorCode(t, err, models.CodeUnauthorized)
	})

	t.Run("banned user is refused", func(t *testing.T) {
		t.Parallel()
		bans := noopBanRepo()
		bans.isBannedFn = func(_ context.Context, id uint) (bool, error) { return id == 3, nil }
		svc := newTestAccountService(repo, bans)
		_, err := svc.Authenticate(context.Background(), "happycamper", strongPassword)
		assertAppErrorCode(t, err, models.CodeForbidden)
	})
}

func TestAccountService_UpdateProfile(t *testing.T) {
	t.Parallel()

	owner := func() *models.User {
		return &models.User{ID: 1, Username: "owner_user", FirstName: "Old", LastName: "Name"}
	}

	t.Run("owner updates selected fields", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByUsernameFn = func(context.Context, string) (*models.User, error) { return owner(), nil }
		var saved *models.User
		repo.updateProfileFn = func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		}
		svc := newTestAccountService(repo, noopBanRepo())

		user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			CallerID:  1,
			Username:  "owner_user",
			FirstName: strPtr("New"),
			Gender:    strPtr("other"),
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "New", user.FirstName)
		assert.Equal(t, "Name", user.LastName, "last name untouched when not provided")
		assert.Equal(t, models.GenderOther, user.Gender)
	})

	t.Run("non-owner is forbidden and nothing is saved", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByUsernameFn = func(context.Context, string) (*models.User, error) { return owner(), nil }
		repo.updateProfileFn = func(context.Context, *models.User) error {
			t.Fatal("update must not be called")
			return nil
		}
		svc := newTestAccountService(repo, noopBanRepo())

		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			CallerID:  2,
			Username:  "owner_user",
			FirstName: strPtr("Hacked"),
		})
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("missing user is not found before permission check", func(t *testing.T) {
		t.Parallel()
		svc := newTestAccountService(noopUserRepo(), noopBanRepo())
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{CallerID: 0, Username: "ghost_user"})
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("name too long", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByUsernameFn = func(context.Context, string) (*models.User, error) { return owner(), nil }
		svc := newTestAccountService(repo, noopBanRepo())
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			CallerID: 1,
			Username: "owner_user",
			LastName: strPtr(strings.Repeat("x", 151)),
		})
		assertAppErrorCode(t, err, models.CodeValidation)
	})
}

func TestAccountService_DeleteAccount(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByUsernameFn = func(context.Context, string) (*models.User, error) {
		return &models.User{ID: 1, Username: "owner_user"}, nil
	}
	deleted := 0
	repo.deleteFn = func(context.Context, *models.User) error {
		deleted++
		return nil
	}
	svc := newTestAccountService(repo, noopBanRepo())

	assertAppErrorCode(t, svc.DeleteAccount(context.Background(), 0, "owner_user"), models.CodeUnauthorized)
	assertAppErrorCode(t, svc.DeleteAccount(context.Background(), 2, "owner_user"), models.CodeForbidden)
	assert.Zero(t, deleted)

	require.NoError(t, svc.DeleteAccount(context.Background(), 1, "owner_user"))
	assert.Equal(t, 1, deleted)
}

func TestAccountService_CheckUsername(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.usernameExistsFn = func(_ context.Context, name string) (bool, error) {
		return strings.EqualFold(name, "existing_user"), nil
	}
	svc := newTestAccountService(repo, noopBanRepo())
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		lang     string
		want     string
	}{
		{"too short", "abcde", "", "Kullanıcı adı en az 6 en çok 30 karakter içerlemidir"},
		{"too long", strings.Repeat("a", 31), "", "Kullanıcı adı en az 6 en çok 30 karakter içerlemidir"},
		{"taken any case", "EXISTING_USER", "", "Kullanıcı adı mevcut"},
		{"taken in english", "existing_user", "en-US,en;q=0.9", "This username is already taken"},
		{"available", "brand_new", "", ""},
		{"six runes", "çğışöü", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := svc.CheckUsername(ctx, tt.username, tt.lang)
			require.NoError(t, err)
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestAccountService_CheckEmail(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.emailExistsFn = func(_ context.Context, email string) (bool, error) {
		return email == "used@example.com", nil
	}
	svc := newTestAccountService(repo, noopBanRepo())

	msg, err := svc.CheckEmail(context.Background(), "used@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "Bu email adresi kullanımda", msg)

	msg, err = svc.CheckEmail(context.Background(), "free@example.com", "")
	require.NoError(t, err)
	assert.Empty(t, msg)

	repoErr := errors.New("db down")
	repo.emailExistsFn = func(context.Context, string) (bool, error) { return false, repoErr }
	_, err = svc.CheckEmail(context.Background(), "x@example.com", "")
	assert.ErrorIs(t, err, repoErr)
}
