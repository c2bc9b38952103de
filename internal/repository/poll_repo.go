package repository

import (
	"context"
	"errors"

	"plaza/internal/models"

	"gorm.io/gorm"
)

type PollRepository struct {
	db *gorm.DB
}

func NewPollRepository(db *gorm.DB) *PollRepository {
	return &PollRepository{db: db}
}

// Create stores the poll and its options in one transaction.
func (r *PollRepository) Create(ctx context.Context, p *models.Poll) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(p).Error
	})
}

func (r *PollRepository) GetByID(ctx context.Context, id uint) (*models.Poll, error) {
	var p models.Poll
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PollRepository) ListActive(ctx context.Context, limit int) ([]models.Poll, error) {
	var list []models.Poll
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("is_active = ?", true).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *PollRepository) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Poll{}).Where("id = ?", id).Update("is_active", false).Error
}

// GetVote returns the user's vote on a poll, or nil when they have not voted.
func (r *PollRepository) GetVote(ctx context.Context, userID, pollID uint) (*models.Vote, error) {
	var v models.Vote
	err := r.db.WithContext(ctx).Where("user_id = ? AND poll_id = ?", userID, pollID).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PollRepository) CreateVote(ctx context.Context, v *models.Vote) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *PollRepository) ChangeVote(ctx context.Context, voteID, optionID uint) error {
	return r.db.WithContext(ctx).Model(&models.Vote{}).Where("id = ?", voteID).Update("option_id", optionID).Error
}

// VoteCounts returns votes per option id.
func (r *PollRepository) VoteCounts(ctx context.Context, pollID uint) (map[uint]int64, error) {
	var rows []struct {
		OptionID uint
		N        int64
	}
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Select("option_id, COUNT(*) AS n").
		Where("poll_id = ?", pollID).
		Group("option_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, row := range rows {
		out[row.OptionID] = row.N
	}
	return out, nil
}
