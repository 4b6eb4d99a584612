package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"campfire/internal/middleware"
	"campfire/internal/models"
	"campfire/internal/notifications"
	"campfire/internal/observability"
	"campfire/internal/repository"
)

const maxCampNameLen = 120

// FollowService manages camp profiles and the follow relation on them.
type FollowService struct {
	camps    repository.CampRepository
	notifier *notifications.Notifier
}

// NewFollowService returns a new FollowService. notifier may be nil.
func NewFollowService(camps repository.CampRepository, notifier *notifications.Notifier) *FollowService {
	return &FollowService{camps: camps, notifier: notifier}
}

// Toggle flips whether callerID follows the camp owned by ownerID and returns the new state.
func (s *FollowService) Toggle(ctx context.Context, callerID, ownerID uint) (bool, error) {
	if callerID == 0 {
		return false, models.NewUnauthorizedError("Authentication required")
	}
	camp, err := s.camps.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return false, err
	}

	following, err := s.camps.ToggleFollower(ctx, camp.ID, callerID)
	if err != nil {
		return false, err
	}

	event := notifications.EventCampUnfollowed
	action := "unfollow"
	if following {
		event = notifications.EventCampFollowed
		action = "follow"
	}
	observability.FollowToggles.WithLabelValues(action).Inc()

	payload := map[string]uint{"camp_id": camp.ID, "user_id": callerID}
	if err := s.notifier.PublishUser(ctx, camp.OwnerID, event, payload); err != nil {
		middleware.Logger.WarnContext(ctx, "follow notification failed", "camp_id", camp.ID, "error", err.Error())
	}
	return following, nil
}

// CreateCamp creates the caller's camp profile. Each owner has at most one.
func (s *FollowService) CreateCamp(ctx context.Context, ownerID uint, name, description string) (*models.CampProfile, error) {
	if ownerID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("Camp name is required")
	}
	if utf8.RuneCountInString(name) > maxCampNameLen {
		return nil, models.NewValidationError("Camp name too long (max 120 characters)")
	}

	camp := &models.CampProfile{OwnerID: ownerID, Name: name, Description: strings.TrimSpace(description)}
	if err := s.camps.Create(ctx, camp); err != nil {
		return nil, err
	}
	return camp, nil
}

// GetCamp returns the camp owned by ownerID with its follower count and,
// for a signed-in viewer, whether they follow it.
func (s *FollowService) GetCamp(ctx context.Context, ownerID, viewerID uint) (*models.CampProfile, error) {
	cached, err := s.camps.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	camp := *cached

	if camp.FollowerCount, err = s.camps.CountFollowers(ctx, camp.ID); err != nil {
		return nil, err
	}
	if viewerID != 0 {
		if camp.Following, err = s.camps.IsFollower(ctx, camp.ID, viewerID); err != nil {
			return nil, err
		}
	}
	return &camp, nil
}

func (s *FollowService) ListFollowers(ctx context.Context, ownerID uint, limit, offset int) ([]models.User, error) {
	camp, err := s.camps.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.camps.ListFollowers(ctx, camp.ID, limit, offset)
}
