package repository

import (
	"context"
	"errors"
	"time"

	"plaza/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository struct {
	db *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

func (r *BadgeRepository) WithTx(tx *gorm.DB) *BadgeRepository {
	if tx == nil {
		return r
	}
	return &BadgeRepository{db: tx}
}

func (r *BadgeRepository) ListAll(ctx context.Context) ([]models.Badge, error) {
	var list []models.Badge
	err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *BadgeRepository) GetByName(ctx context.Context, name string) (*models.Badge, error) {
	var b models.Badge
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BadgeRepository) ListByUser(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	var list []models.UserBadge
	err := r.db.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&list).Error
	return list, err
}

func (r *BadgeRepository) HasBadge(ctx context.Context, userID, badgeID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&n).Error
	return n > 0, err
}

// Grant inserts the (user, badge) row. It reports false without error when
// the row already exists, including when a concurrent grant won the race.
func (r *BadgeRepository) Grant(ctx context.Context, userID, badgeID uint, at time.Time) (bool, error) {
	ub := &models.UserBadge{UserID: userID, BadgeID: badgeID, EarnedAt: at}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
			DoNothing: true,
		}).
		Create(ub)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
