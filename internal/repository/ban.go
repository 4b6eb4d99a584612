package repository

import (
	"context"

	"campfire/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BanRepository persists append-only ban records.
type BanRepository interface {
	Create(ctx context.Context, ban *models.BannedUser) error
	List(ctx context.Context, userID uint, limit, offset int) ([]models.BannedUser, error)
	IsBanned(ctx context.Context, userID uint) (bool, error)
}

type banRepository struct {
	db *gorm.DB
}

// NewBanRepository returns a new BanRepository implementation.
func NewBanRepository(db *gorm.DB) BanRepository {
	return &banRepository{db: db}
}

func (r *banRepository) Create(ctx context.Context, ban *models.BannedUser) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(ban).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// List returns ban records newest first, optionally restricted to userID (0 means all users).
func (r *banRepository) List(ctx context.Context, userID uint, limit, offset int) ([]models.BannedUser, error) {
	var bans []models.BannedUser
	q := r.db.WithContext(ctx).Preload("User")
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&bans).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return bans, nil
}

func (r *banRepository) IsBanned(ctx context.Context, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BannedUser{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
