package models

import "time"

type Poll struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Question  string     `gorm:"size:500;not null" json:"question"`
	IsActive  bool       `gorm:"default:true;index" json:"is_active"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`

	Options []PollOption `gorm:"foreignKey:PollID" json:"options"`
}

func (Poll) TableName() string {
	return "polls"
}

// Expired reports whether the poll's end time has passed at t.
func (p *Poll) Expired(t time.Time) bool {
	return p.EndsAt != nil && p.EndsAt.Before(t)
}

type PollOption struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	PollID uint   `gorm:"not null;index" json:"poll_id"`
	Text   string `gorm:"size:200;not null" json:"text"`
}

func (PollOption) TableName() string {
	return "poll_options"
}

// Vote is one per user per poll; changing a vote updates OptionID.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_vote_user_poll,priority:1" json:"user_id"`
	PollID    uint      `gorm:"not null;uniqueIndex:idx_vote_user_poll,priority:2" json:"poll_id"`
	OptionID  uint      `gorm:"not null;index" json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Vote) TableName() string {
	return "votes"
}
