package repository

import (
	"context"
	"errors"

	"campfire/internal/cache"
	"campfire/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CampRepository defines persistence operations for camp profiles and their followers.
type CampRepository interface {
	GetByOwnerID(ctx context.Context, ownerID uint) (*models.CampProfile, error)
	Create(ctx context.Context, camp *models.CampProfile) error
	IsFollower(ctx context.Context, campID, userID uint) (bool, error)
	ToggleFollower(ctx context.Context, campID, userID uint) (bool, error)
	CountFollowers(ctx context.Context, campID uint) (int64, error)
	ListFollowers(ctx context.Context, campID uint, limit, offset int) ([]models.User, error)
}

type campRepository struct {
	db    *gorm.DB
	cache *cache.Store
}

// NewCampRepository returns a new CampRepository implementation. store may be nil.
func NewCampRepository(db *gorm.DB, store *cache.Store) CampRepository {
	if store == nil {
		store = cache.NewStore(nil)
	}
	return &campRepository{db: db, cache: store}
}

// GetByOwnerID is cached per owner. Follower data is never part of the cached value.
func (r *campRepository) GetByOwnerID(ctx context.Context, ownerID uint) (*models.CampProfile, error) {
	var camp models.CampProfile
	err := r.cache.Aside(ctx, cache.CampOwnerKey(ownerID), &camp, cache.CampTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("Owner").
			Where("owner_id = ?", ownerID).
			First(&camp).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Camp profile for owner", ownerID)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &camp, nil
}

func (r *campRepository) Create(ctx context.Context, camp *models.CampProfile) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(camp).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Camp profile already exists for this owner")
		}
		return models.NewInternalError(err)
	}
	r.cache.InvalidateCamp(ctx, camp.OwnerID)
	return nil
}

func (r *campRepository) IsFollower(ctx context.Context, campID, userID uint) (bool, error) {
	return isFollower(r.db.WithContext(ctx), campID, userID)
}

// ToggleFollower removes userID from the camp's followers if present, otherwise adds it.
// It reports whether the user follows the camp afterwards.
func (r *campRepository) ToggleFollower(ctx context.Context, campID, userID uint) (bool, error) {
	var following bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := isFollower(tx, campID, userID)
		if err != nil {
			return err
		}
		row := models.CampProfileFollower{CampProfileID: campID, UserID: userID}
		if exists {
			following = false
			return tx.Where("camp_profile_id = ? AND user_id = ?", campID, userID).
				Delete(&models.CampProfileFollower{}).Error
		}
		following = true
		// A concurrent add is a no-op: the pair is the primary key.
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return following, nil
}

func (r *campRepository) CountFollowers(ctx context.Context, campID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CampProfileFollower{}).
		Where("camp_profile_id = ?", campID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *campRepository) ListFollowers(ctx context.Context, campID uint, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN camp_profile_followers f ON f.user_id = users.id").
		Where("f.camp_profile_id = ?", campID).
		Order("users.id").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func isFollower(db *gorm.DB, campID, userID uint) (bool, error) {
	var count int64
	if err := db.Model(&models.CampProfileFollower{}).
		Where("camp_profile_id = ? AND user_id = ?", campID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
