package models

import "time"

type Video struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	URL          string    `gorm:"size:512;not null" json:"url"`
	ThumbnailURL string    `gorm:"size:512" json:"thumbnail_url"`
	IsPinned     bool      `gorm:"default:false;index" json:"is_pinned"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`

	Author User `gorm:"foreignKey:UserID" json:"-"`
}

func (Video) TableName() string {
	return "videos"
}
