package repository

import (
	"context"
	"time"

	"plaza/internal/models"

	"gorm.io/gorm"
)

type PresenceRepository struct {
	db *gorm.DB
}

func NewPresenceRepository(db *gorm.DB) *PresenceRepository {
	return &PresenceRepository{db: db}
}

func (r *PresenceRepository) MarkOnline(ctx context.Context, userID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"is_online": true, "last_seen_at": at}).Error
}

func (r *PresenceRepository) MarkOffline(ctx context.Context, userID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"is_online": false, "last_seen_at": at}).Error
}

// SweepOffline flips every online user last seen before cutoff to offline and
// returns how many rows changed.
func (r *PresenceRepository) SweepOffline(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("is_online = ? AND last_seen_at < ?", true, cutoff).
		Update("is_online", false)
	return res.RowsAffected, res.Error
}

func (r *PresenceRepository) CountOnline(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("is_online = ?", true).Count(&n).Error
	return n, err
}

func (r *PresenceRepository) ListOnline(ctx context.Context, limit int) ([]models.User, error) {
	var list []models.User
	err := r.db.WithContext(ctx).Where("is_online = ?", true).Order("last_seen_at DESC").Limit(limit).Find(&list).Error
	return list, err
}
