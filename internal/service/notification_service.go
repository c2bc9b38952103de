package service

import (
	"context"
	"strings"

	"plaza/internal/domain"
	"plaza/internal/models"
	"plaza/internal/repository"
	"plaza/pkg/logger"

	"gorm.io/gorm"
)

// Pusher delivers a JSON payload to every open connection of a user.
type Pusher interface {
	SendToUser(userID uint, payload interface{})
}

type NotifyInput struct {
	UserID        uint
	Kind          string
	Text          string
	RelatedPostID *uint
	RelatedUserID *uint
}

type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	pusher   Pusher
	fcm      *FCMService
	log      *logger.Logger
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, pusher Pusher, fcm *FCMService, log *logger.Logger) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, pusher: pusher, fcm: fcm, log: log}
}

// WithTx returns a copy whose writes go through tx.
func (s *NotificationService) WithTx(tx *gorm.DB) *NotificationService {
	cp := *s
	cp.repo = s.repo.WithTx(tx)
	return &cp
}

// Notify stores a notification and pushes it to the recipient.
func (s *NotificationService) Notify(ctx context.Context, in NotifyInput) error {
	n, err := s.Create(ctx, in)
	if err != nil {
		return err
	}
	s.Deliver(ctx, n)
	return nil
}

// Create stores a notification without pushing it. Every call inserts a new row.
func (s *NotificationService) Create(ctx context.Context, in NotifyInput) (*models.Notification, error) {
	if !domain.IsNotificationKind(in.Kind) {
		return nil, domain.ErrInvalidNotificationKind
	}
	if in.UserID == 0 || strings.TrimSpace(in.Text) == "" {
		return nil, domain.ErrInvalidAction
	}
	n := &models.Notification{
		UserID:        in.UserID,
		Kind:          in.Kind,
		Text:          in.Text,
		RelatedPostID: in.RelatedPostID,
		RelatedUserID: in.RelatedUserID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Deliver fans a stored notification out over websocket and FCM. Failures are logged only.
func (s *NotificationService) Deliver(ctx context.Context, n *models.Notification) {
	if s.pusher != nil {
		s.pusher.SendToUser(n.UserID, map[string]interface{}{
			"type":         "notification",
			"notification": n,
		})
	}
	if s.fcm == nil || s.userRepo == nil {
		return
	}
	token, err := s.userRepo.FCMToken(ctx, n.UserID)
	if err != nil {
		s.log.Warn("fcm token lookup failed", "user_id", n.UserID, "error", err)
		return
	}
	if err := s.fcm.SendNotification(ctx, token, n); err != nil {
		s.log.Warn("push delivery failed", "user_id", n.UserID, "notification_id", n.ID, "error", err)
	}
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	_, err := s.repo.MarkAllRead(ctx, userID)
	return err
}

// MarkRead marks one of the user's notifications read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	owned, err := s.repo.ExistsForUser(ctx, id, userID)
	if err != nil {
		return err
	}
	if !owned {
		return domain.ErrNotFound
	}
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) List(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	return s.repo.ListByUserID(ctx, userID, limit, offset)
}
