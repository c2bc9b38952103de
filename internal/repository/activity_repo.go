package repository

import (
	"context"
	"errors"

	"plaza/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityRepository answers the per-user counters that badge rules are
// evaluated against, and records login days.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) WithTx(tx *gorm.DB) *ActivityRepository {
	if tx == nil {
		return r
	}
	return &ActivityRepository{db: tx}
}

// CountComments counts comments the user wrote on posts and videos.
func (r *ActivityRepository) CountComments(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// CountPostLikes counts likes (not dislikes) received across all of the user's posts.
func (r *ActivityRepository) CountPostLikes(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("posts.user_id = ? AND likes.is_like = ?", userID, true).
		Count(&n).Error
	return n, err
}

func (r *ActivityRepository) CountVideos(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Video{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *ActivityRepository) CountPolls(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Poll{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// RecentLoginDays returns up to limit distinct login days, newest first.
func (r *ActivityRepository) RecentLoginDays(ctx context.Context, userID uint, limit int) ([]string, error) {
	var days []string
	err := r.db.WithContext(ctx).Model(&models.LoginDay{}).
		Where("user_id = ?", userID).
		Order("day DESC").
		Limit(limit).
		Pluck("day", &days).Error
	return days, err
}

// RecordLoginDay stores a login for day and reports whether it was the first one that day.
func (r *ActivityRepository) RecordLoginDay(ctx context.Context, userID uint, day string) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoNothing: true,
		}).
		Create(&models.LoginDay{UserID: userID, Day: day})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
