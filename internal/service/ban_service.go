package service

import (
	"context"
	"strings"

	"campfire/internal/middleware"
	"campfire/internal/models"
	"campfire/internal/notifications"
	"campfire/internal/observability"
	"campfire/internal/repository"
)

// BanService records bans. Records are never updated or removed.
type BanService struct {
	bans     repository.BanRepository
	users    repository.UserRepository
	notifier *notifications.Notifier
}

func NewBanService(bans repository.BanRepository, users repository.UserRepository, notifier *notifications.Notifier) *BanService {
	return &BanService{bans: bans, users: users, notifier: notifier}
}

// Ban appends a ban record for userID. Repeated bans each create a record.
func (s *BanService) Ban(ctx context.Context, adminID, userID uint, description string) (*models.BannedUser, error) {
	if userID == 0 {
		return nil, models.NewValidationError("user_id is required")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ban := &models.BannedUser{
		UserID:      user.ID,
		Description: strings.TrimSpace(description),
	}
	if adminID != 0 {
		ban.BannedByID = &adminID
	}
	if err := s.bans.Create(ctx, ban); err != nil {
		return nil, err
	}
	observability.Bans.Inc()

	if err := s.notifier.PublishUser(ctx, user.ID, notifications.EventUserBanned, map[string]interface{}{
		"ban_id": ban.ID,
		"desc":   ban.Description,
	}); err != nil {
		middleware.Logger.WarnContext(ctx, "ban notification failed", "user_id", user.ID, "error", err.Error())
	}
	return ban, nil
}

// List returns ban records, optionally for a single user (userID 0 lists all).
func (s *BanService) List(ctx context.Context, userID uint, limit, offset int) ([]models.BannedUser, error) {
	if userID != 0 {
		if _, err := s.users.GetByID(ctx, userID); err != nil {
			return nil, err
		}
	}
	return s.bans.List(ctx, userID, limit, offset)
}
