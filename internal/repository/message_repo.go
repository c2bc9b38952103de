package repository

import (
	"context"

	"plaza/internal/models"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListGlobal returns the latest global messages in chronological order.
func (r *MessageRepository) ListGlobal(ctx context.Context, limit int) ([]models.Message, error) {
	var list []models.Message
	err := r.db.WithContext(ctx).Preload("Sender").
		Where("is_global = ?", true).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	reverse(list)
	return list, nil
}

// ListPrivate returns the conversation between two users in chronological order.
func (r *MessageRepository) ListPrivate(ctx context.Context, userA, userB uint, limit int) ([]models.Message, error) {
	var list []models.Message
	err := r.db.WithContext(ctx).Preload("Sender").
		Where("is_global = ? AND ((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?))",
			false, userA, userB, userB, userA).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	reverse(list)
	return list, nil
}

func reverse(list []models.Message) {
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
}
