package repository

import (
	"context"

	"plaza/internal/models"

	"gorm.io/gorm"
)

type GameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Create(ctx context.Context, s *models.GameScore) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// BestScores returns the user's best score per game type.
func (r *GameRepository) BestScores(ctx context.Context, userID uint) (map[string]int, error) {
	var rows []struct {
		GameType string
		Best     int
	}
	err := r.db.WithContext(ctx).Model(&models.GameScore{}).
		Select("game_type, MAX(score) AS best").
		Where("user_id = ?", userID).
		Group("game_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.GameType] = row.Best
	}
	return out, nil
}

// Leaderboard returns the top scores for a game type.
func (r *GameRepository) Leaderboard(ctx context.Context, gameType string, limit int) ([]models.GameScore, error) {
	var list []models.GameScore
	err := r.db.WithContext(ctx).Preload("User").
		Where("game_type = ?", gameType).
		Order("score DESC, created_at ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
