package service

import (
	"context"
	"strconv"

	"plaza/internal/domain"
	"plaza/internal/models"
	"plaza/pkg/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMService sends push notifications via Firebase Cloud Messaging.
type FCMService struct {
	client *messaging.Client
	log    *logger.Logger
}

// NewFCMService creates an FCM service. Returns nil if Firebase is not configured.
func NewFCMService(serviceAccountPath string, log *logger.Logger) *FCMService {
	if serviceAccountPath == "" {
		return nil
	}
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		log.Error("firebase app init failed", "error", err)
		return nil
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		log.Error("firebase messaging client failed", "error", err)
		return nil
	}
	return &FCMService{client: client, log: log}
}

// Send sends a push notification to the given FCM token.
func (s *FCMService) Send(ctx context.Context, token string, title, body string, data map[string]string) error {
	if s == nil || token == "" {
		return nil
	}
	msg := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:  data,
		Token: token,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}
	if _, err := s.client.Send(ctx, msg); err != nil {
		s.log.Warn("fcm send failed", "error", err)
		return err
	}
	return nil
}

// SendNotification pushes a stored notification. FCM requires string data values.
func (s *FCMService) SendNotification(ctx context.Context, token string, n *models.Notification) error {
	if s == nil || token == "" {
		return nil
	}
	data := map[string]string{
		"type":            n.Kind,
		"notification_id": strconv.FormatUint(uint64(n.ID), 10),
	}
	if n.RelatedPostID != nil {
		data["post_id"] = strconv.FormatUint(uint64(*n.RelatedPostID), 10)
	}
	if n.RelatedUserID != nil {
		data["user_id"] = strconv.FormatUint(uint64(*n.RelatedUserID), 10)
	}
	return s.Send(ctx, token, pushTitle(n.Kind), n.Text, data)
}

func pushTitle(kind string) string {
	switch kind {
	case domain.NotificationComment:
		return "New comment"
	case domain.NotificationLike:
		return "New reaction"
	case domain.NotificationMessage:
		return "New message"
	case domain.NotificationAchievement:
		return "Level up"
	case domain.NotificationBadge:
		return "Badge earned"
	}
	return "Plaza"
}
