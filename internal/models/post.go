package models

import "time"

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ImageURL  string    `gorm:"size:512" json:"image_url,omitempty"`
	IsPinned  bool      `gorm:"default:false;index" json:"is_pinned"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author User `gorm:"foreignKey:UserID" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}

// Comment targets either a post or a video.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	PostID    *uint     `gorm:"index" json:"post_id,omitempty"`
	VideoID   *uint     `gorm:"index" json:"video_id,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	Author User `gorm:"foreignKey:UserID" json:"author"`
}

func (Comment) TableName() string {
	return "comments"
}

// Like is a like (IsLike=true) or dislike on a post or a video. One per user per target.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post,priority:1;uniqueIndex:idx_like_user_video,priority:1" json:"user_id"`
	PostID    *uint     `gorm:"index;uniqueIndex:idx_like_user_post,priority:2" json:"post_id,omitempty"`
	VideoID   *uint     `gorm:"index;uniqueIndex:idx_like_user_video,priority:2" json:"video_id,omitempty"`
	IsLike    bool      `gorm:"not null" json:"is_like"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}
