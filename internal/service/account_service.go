package service

import (
	"context"
	"strings"

	"campfire/internal/models"
	"campfire/internal/observability"
	"campfire/internal/repository"
	"campfire/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AccountService handles registration, authentication and profile management.
type AccountService struct {
	users    repository.UserRepository
	bans     repository.BanRepository
	messages *validation.Messages
	hashCost int
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Gender    string
}

// UpdateProfileInput carries profile changes. Nil fields are left untouched.
type UpdateProfileInput struct {
	CallerID  uint
	Username  string
	FirstName *string
	LastName  *string
	Gender    *string
	Image     *string
}

func NewAccountService(users repository.UserRepository, bans repository.BanRepository, messages *validation.Messages) *AccountService {
	if messages == nil {
		messages = validation.NewMessages("")
	}
	return &AccountService{
		users:    users,
		bans:     bans,
		messages: messages,
		hashCost: bcrypt.DefaultCost,
	}
}

// Register validates the form, checks uniqueness and stores a new user with a hashed password.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	fields := map[string]string{}
	if err := validation.ValidateUsername(in.Username); err != nil {
		fields["username"] = err.Error()
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		fields["email"] = err.Error()
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		fields["password"] = err.Error()
	}
	gender, err := validation.NormalizeGender(in.Gender)
	if err != nil {
		fields["gender"] = err.Error()
	}
	if err := validation.ValidateName("first_name", in.FirstName); err != nil {
		fields["first_name"] = err.Error()
	}
	if err := validation.ValidateName("last_name", in.LastName); err != nil {
		fields["last_name"] = err.Error()
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	taken := map[string]string{}
	if exists, err := s.users.UsernameExists(ctx, in.Username); err != nil {
		return nil, err
	} else if exists {
		taken["username"] = "username is already taken"
	}
	if exists, err := s.users.EmailExists(ctx, in.Email); err != nil {
		return nil, err
	} else if exists {
		taken["email"] = "email is already in use"
	}
	if len(taken) > 0 {
		conflict := models.NewConflictError("User already exists")
		conflict.Fields = taken
		return nil, conflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hash),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Gender:    gender,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	observability.Registrations.Inc()
	return user, nil
}

// Authenticate resolves identifier as a username, then as an email, and checks the password.
func (s *AccountService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil && strings.Contains(identifier, "@") {
		if user, err = s.users.GetByEmail(ctx, identifier); err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	banned, err := s.bans.IsBanned(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, models.NewForbiddenError("This account has been banned")
	}
	return user, nil
}

func (s *AccountService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	return s.users.GetProfile(ctx, username)
}

func (s *AccountService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// loadOwned looks the target up first, so a missing user is reported before any permission error.
func (s *AccountService) loadOwned(ctx context.Context, callerID uint, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	if err := Authorize(callerID, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.loadOwned(ctx, in.CallerID, in.Username)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if in.FirstName != nil {
		if err := validation.ValidateName("first_name", *in.FirstName); err != nil {
			fields["first_name"] = err.Error()
		}
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		if err := validation.ValidateName("last_name", *in.LastName); err != nil {
			fields["last_name"] = err.Error()
		}
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Gender != nil {
		gender, err := validation.NormalizeGender(*in.Gender)
		if err != nil {
			fields["gender"] = err.Error()
		}
		user.Gender = gender
	}
	if in.Image != nil {
		user.Image = strings.TrimSpace(*in.Image)
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// AuthorizeOwner reports whether callerID may modify the profile of username.
func (s *AccountService) AuthorizeOwner(ctx context.Context, callerID uint, username string) (*models.User, error) {
	user, err := s.loadOwned(ctx, callerID, username)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// DeleteAccount removes the caller's own account.
func (s *AccountService) DeleteAccount(ctx context.Context, callerID uint, username string) error {
	user, err := s.loadOwned(ctx, callerID, username)
	if err != nil {
		return err
	}
	return s.users.Delete(ctx, user)
}

func (s *AccountService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.users.List(ctx, limit, offset)
}

// CheckUsername returns a localized message when username is unusable, or "" when it is free.
func (s *AccountService) CheckUsername(ctx context.Context, username, acceptLanguage string) (string, error) {
	if !validation.UsernameLengthOK(username) {
		observability.ValidationChecks.WithLabelValues("username", "length").Inc()
		return s.messages.Get(acceptLanguage, validation.MsgUsernameLength), nil
	}
	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return "", err
	}
	if exists {
		observability.ValidationChecks.WithLabelValues("username", "taken").Inc()
		return s.messages.Get(acceptLanguage, validation.MsgUsernameTaken), nil
	}
	observability.ValidationChecks.WithLabelValues("username", "ok").Inc()
	return "", nil
}

// CheckEmail returns a localized message when email is already registered, or "" otherwise.
func (s *AccountService) CheckEmail(ctx context.Context, email, acceptLanguage string) (string, error) {
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return "", err
	}
	if exists {
		observability.ValidationChecks.WithLabelValues("email", "taken").Inc()
		return s.messages.Get(acceptLanguage, validation.MsgEmailTaken), nil
	}
	observability.ValidationChecks.WithLabelValues("email", "ok").Inc()
	return "", nil
}
