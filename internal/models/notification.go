package models

import "time"

// Notification is immutable once written except for IsRead.
type Notification struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index:idx_notifications_user_read,priority:1" json:"user_id"`
	Kind          string    `gorm:"size:20;not null;index" json:"kind"` // comment, like, message, achievement, badge
	Text          string    `gorm:"type:text;not null" json:"text"`
	IsRead        bool      `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2" json:"is_read"`
	RelatedPostID *uint     `json:"related_post_id,omitempty"`
	RelatedUserID *uint     `json:"related_user_id,omitempty"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`

	RelatedUser *User `gorm:"foreignKey:RelatedUserID" json:"related_user,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
