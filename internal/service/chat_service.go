package service

import (
	"context"
	"errors"

	"plaza/internal/domain"
	"plaza/internal/models"
	"plaza/internal/repository"
	"plaza/pkg/logger"

	"gorm.io/gorm"
)

var ErrSelfMessage = errors.New("you cannot message yourself")

// Broadcaster fans a payload out to every connected client and to single users.
type Broadcaster interface {
	Pusher
	BroadcastAll(payload interface{})
}

type ChatService struct {
	messages      *repository.MessageRepository
	users         *repository.UserRepository
	hub           Broadcaster
	dispatcher    *ActivityDispatcher
	notifications *NotificationService
	log           *logger.Logger
}

func NewChatService(messages *repository.MessageRepository, users *repository.UserRepository, hub Broadcaster, dispatcher *ActivityDispatcher, notifications *NotificationService, log *logger.Logger) *ChatService {
	return &ChatService{messages: messages, users: users, hub: hub, dispatcher: dispatcher, notifications: notifications, log: log}
}

func messagePayload(m *models.Message, sender *models.User) map[string]interface{} {
	p := map[string]interface{}{
		"type":       "message",
		"id":         m.ID,
		"is_global":  m.IsGlobal,
		"sender":     sender.ToCompact(),
		"content":    m.Content,
		"created_at": m.CreatedAt,
	}
	if m.RecipientID != nil {
		p["recipient_id"] = *m.RecipientID
	}
	return p
}

// SendGlobal stores a message in the global room and broadcasts it.
func (s *ChatService) SendGlobal(ctx context.Context, senderID uint, content string) (*models.Message, *ActionOutcome, error) {
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, nil, err
	}
	m := &models.Message{SenderID: senderID, IsGlobal: true, Content: content}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, nil, err
	}
	m.Sender = *sender
	if s.hub != nil {
		s.hub.BroadcastAll(messagePayload(m, sender))
	}
	out := s.dispatcher.Reward(ctx, NewAction(senderID, domain.ActionChat, "chat participation"))
	return m, out, nil
}

// SendPrivate stores a direct message, pushes it to both sides and notifies the recipient.
func (s *ChatService) SendPrivate(ctx context.Context, senderID uint, recipientUsername, content string) (*models.Message, *ActionOutcome, error) {
	recipient, err := s.users.GetByUsername(ctx, recipientUsername)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if recipient.ID == senderID {
		return nil, nil, ErrSelfMessage
	}
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, nil, err
	}
	rid := recipient.ID
	m := &models.Message{SenderID: senderID, RecipientID: &rid, Content: content}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, nil, err
	}
	m.Sender = *sender
	if s.hub != nil {
		payload := messagePayload(m, sender)
		s.hub.SendToUser(recipient.ID, payload)
		s.hub.SendToUser(senderID, payload)
	}
	sid := senderID
	err = s.notifications.Notify(ctx, NotifyInput{
		UserID:        recipient.ID,
		Kind:          domain.NotificationMessage,
		Text:          sender.Username + " sent you a message",
		RelatedUserID: &sid,
	})
	if err != nil {
		s.log.Warn("message notification failed", "recipient_id", recipient.ID, "error", err)
	}
	out := s.dispatcher.Reward(ctx, NewAction(senderID, domain.ActionChat, "private message"))
	return m, out, nil
}

func (s *ChatService) ListGlobal(ctx context.Context, limit int) ([]models.Message, error) {
	return s.messages.ListGlobal(ctx, limit)
}

// ListPrivate returns the conversation between userID and the named user.
func (s *ChatService) ListPrivate(ctx context.Context, userID uint, otherUsername string, limit int) ([]models.Message, *models.User, error) {
	other, err := s.users.GetByUsername(ctx, otherUsername)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if other.ID == userID {
		return nil, nil, ErrSelfMessage
	}
	list, err := s.messages.ListPrivate(ctx, userID, other.ID, limit)
	return list, other, err
}
