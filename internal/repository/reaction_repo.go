package repository

import (
	"context"
	"errors"

	"plaza/internal/models"

	"gorm.io/gorm"
)

// ReactionTarget selects a post or a video; exactly one field is set.
type ReactionTarget struct {
	PostID  *uint
	VideoID *uint
}

func PostTarget(id uint) ReactionTarget  { return ReactionTarget{PostID: &id} }
func VideoTarget(id uint) ReactionTarget { return ReactionTarget{VideoID: &id} }

func (t ReactionTarget) scope(db *gorm.DB) *gorm.DB {
	if t.PostID != nil {
		return db.Where("post_id = ?", *t.PostID)
	}
	return db.Where("video_id = ?", *t.VideoID)
}

type ReactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Get returns the user's reaction on target, or nil when there is none.
func (r *ReactionRepository) Get(ctx context.Context, userID uint, t ReactionTarget) (*models.Like, error) {
	var l models.Like
	err := t.scope(r.db.WithContext(ctx).Where("user_id = ?", userID)).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ReactionRepository) Create(ctx context.Context, userID uint, t ReactionTarget, isLike bool) error {
	return r.db.WithContext(ctx).Create(&models.Like{
		UserID:  userID,
		PostID:  t.PostID,
		VideoID: t.VideoID,
		IsLike:  isLike,
	}).Error
}

func (r *ReactionRepository) SetIsLike(ctx context.Context, id uint, isLike bool) error {
	return r.db.WithContext(ctx).Model(&models.Like{}).Where("id = ?", id).Update("is_like", isLike).Error
}

func (r *ReactionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Like{}, id).Error
}

// Counts returns likes and dislikes on target.
func (r *ReactionRepository) Counts(ctx context.Context, t ReactionTarget) (likes, dislikes int64, err error) {
	var rows []struct {
		IsLike bool
		N      int64
	}
	err = t.scope(r.db.WithContext(ctx).Model(&models.Like{})).
		Select("is_like, COUNT(*) AS n").
		Group("is_like").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, err
	}
	for _, row := range rows {
		if row.IsLike {
			likes = row.N
		} else {
			dislikes = row.N
		}
	}
	return likes, dislikes, nil
}
