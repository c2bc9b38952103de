package models

import "time"

// Message is either global (RecipientID nil) or private.
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SenderID    uint      `gorm:"not null;index" json:"sender_id"`
	RecipientID *uint     `gorm:"index" json:"recipient_id,omitempty"`
	IsGlobal    bool      `gorm:"default:false;index" json:"is_global"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender"`
}

func (Message) TableName() string {
	return "messages"
}
