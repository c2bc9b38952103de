package service

import (
	"context"
	"errors"
	"testing"

	"plaza/internal/domain"
)

func TestNotificationUnreadLifecycle(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "lena", 0)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		if err := f.notifications.Notify(ctx, NotifyInput{UserID: u.ID, Kind: domain.NotificationComment, Text: text}); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}
	n, err := f.notifications.UnreadCount(ctx, u.ID)
	if err != nil || n != 3 {
		t.Fatalf("unread: want=3 got=%d err=%v", n, err)
	}

	list, err := f.notifications.List(ctx, u.ID, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Text != "three" {
		t.Fatalf("list order: %+v", list)
	}
	if err := f.notifications.MarkRead(ctx, u.ID, list[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if n, _ := f.notifications.UnreadCount(ctx, u.ID); n != 2 {
		t.Fatalf("unread after mark one: want=2 got=%d", n)
	}

	if err := f.notifications.MarkAllRead(ctx, u.ID); err != nil {
		t.Fatalf("mark all: %v", err)
	}
	if n, _ := f.notifications.UnreadCount(ctx, u.ID); n != 0 {
		t.Fatalf("unread after mark all: want=0 got=%d", n)
	}
	if err := f.notifications.MarkAllRead(ctx, u.ID); err != nil {
		t.Fatalf("mark all again: %v", err)
	}
}

func TestNotificationRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "mike", 0)
	ctx := context.Background()

	if _, err := f.notifications.Create(ctx, NotifyInput{UserID: u.ID, Kind: "spam", Text: "x"}); !errors.Is(err, domain.ErrInvalidNotificationKind) {
		t.Fatalf("kind: want ErrInvalidNotificationKind got %v", err)
	}
	if _, err := f.notifications.Create(ctx, NotifyInput{UserID: u.ID, Kind: domain.NotificationLike, Text: "  "}); !errors.Is(err, domain.ErrInvalidAction) {
		t.Fatalf("text: want ErrInvalidAction got %v", err)
	}
	if got := f.pusher.count(u.ID); got != 0 {
		t.Fatalf("pushed %d payloads", got)
	}
}

func TestMarkReadOtherUsersNotification(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "nora", 0)
	other := f.createUser(t, "oscar", 0)
	ctx := context.Background()

	n, err := f.notifications.Create(ctx, NotifyInput{UserID: owner.ID, Kind: domain.NotificationMessage, Text: "hi"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.notifications.MarkRead(ctx, other.ID, n.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
	if c, _ := f.notifications.UnreadCount(ctx, owner.ID); c != 1 {
		t.Fatalf("owner unread: want=1 got=%d", c)
	}
}
