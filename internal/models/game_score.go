package models

import "time"

type GameScore struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	GameType  string    `gorm:"size:50;not null;index" json:"game_type"` // snake, quiz, guess_number
	Score     int       `gorm:"not null;index" json:"score"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}

func (GameScore) TableName() string {
	return "game_scores"
}
