package models

import (
	"time"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:80;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;size:120;not null" json:"-"` // exposed through the account endpoint only
	PasswordHash string     `gorm:"size:255" json:"-"`
	Bio          string     `gorm:"type:text" json:"bio"`
	AvatarURL    string     `gorm:"size:512" json:"avatar_url"`
	IsAdmin      bool       `gorm:"default:false" json:"is_admin"`
	IsVerified   bool       `gorm:"default:false" json:"is_verified"`
	IsOnline     bool       `gorm:"default:false;index" json:"is_online"`
	LastSeenAt   *time.Time `gorm:"index" json:"last_seen_at"`
	Points       int        `gorm:"not null;default:0" json:"points"`
	Level        int        `gorm:"not null;default:1" json:"level"`
	GoogleID     *string    `gorm:"uniqueIndex;size:255" json:"-"` // nil for email signups
	FCMToken     string     `gorm:"size:512" json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserCompact is the public author card embedded in feeds and notifications.
type UserCompact struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Level     int    `json:"level"`
	IsOnline  bool   `json:"is_online"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL, Level: u.Level, IsOnline: u.IsOnline}
}

// LoginDay records that a user signed in on a calendar day (UTC, YYYY-MM-DD).
type LoginDay struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_login_day_user,priority:1" json:"user_id"`
	Day       string    `gorm:"size:10;not null;uniqueIndex:idx_login_day_user,priority:2" json:"day"`
	CreatedAt time.Time `json:"created_at"`
}

func (LoginDay) TableName() string {
	return "login_days"
}
