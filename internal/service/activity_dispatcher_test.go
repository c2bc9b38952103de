package service

import (
	"context"
	"errors"
	"testing"

	"plaza/internal/domain"
	"plaza/internal/models"
)

func TestRecordActionValidation(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "ivy", 0)
	cases := []struct {
		name   string
		action ActivityAction
	}{
		{"unknown kind", ActivityAction{UserID: u.ID, Kind: "teleport", Points: 5}},
		{"negative points", ActivityAction{UserID: u.ID, Kind: domain.ActionComment, Points: -1}},
		{"missing user", ActivityAction{Kind: domain.ActionComment, Points: 3}},
	}
	for _, tc := range cases {
		if _, err := f.dispatcher.RecordAction(context.Background(), tc.action); !errors.Is(err, domain.ErrInvalidAction) {
			t.Fatalf("%s: want ErrInvalidAction got %v", tc.name, err)
		}
	}
	if stored := f.reload(t, u.ID); stored.Points != 0 {
		t.Fatalf("points changed: %d", stored.Points)
	}
}

func TestRecordActionZeroPointsStillEvaluatesBadges(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "jack", 40)
	f.addComment(t, u.ID)

	out, err := f.dispatcher.RecordAction(context.Background(), ActivityAction{UserID: u.ID, Kind: domain.ActionComment, Points: 0})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if out.PointsAwarded != 0 || out.TotalPoints != 40 || out.LeveledUp {
		t.Fatalf("outcome: %+v", out)
	}
	if len(out.NewBadges) != 1 || out.NewBadges[0].Name != domain.BadgeFirstComment {
		t.Fatalf("badges: %+v", out.NewBadges)
	}
	if n := f.countNotifications(t, u.ID, domain.NotificationBadge); n != 1 {
		t.Fatalf("badge notifications: want=1 got=%d", n)
	}
}

func TestRecordActionCommentRewardAndBadge(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "kate", 98)
	f.addComment(t, u.ID)

	out, err := f.dispatcher.RecordAction(context.Background(), NewAction(u.ID, domain.ActionComment, "comment"))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if out.PointsAwarded != 3 || out.TotalPoints != 101 || out.Level != 2 || !out.LeveledUp {
		t.Fatalf("outcome: %+v", out)
	}
	if n := f.countNotifications(t, u.ID, domain.NotificationAchievement); n != 1 {
		t.Fatalf("achievement notifications: want=1 got=%d", n)
	}
	if n := f.countNotifications(t, u.ID, domain.NotificationBadge); n != 1 {
		t.Fatalf("badge notifications: want=1 got=%d", n)
	}
	if got := f.pusher.count(u.ID); got != 2 {
		t.Fatalf("pushed payloads: want=2 got=%d", got)
	}
}

func TestRecordActionUnknownUserRollsBack(t *testing.T) {
	f := newFixture(t)
	_, err := f.dispatcher.RecordAction(context.Background(), NewAction(4242, domain.ActionLike, "like"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
	if got := f.pusher.count(4242); got != 0 {
		t.Fatalf("pushed %d payloads for a failed action", got)
	}
}

func TestRewardSwallowsErrors(t *testing.T) {
	f := newFixture(t)
	if out := f.dispatcher.Reward(context.Background(), NewAction(4242, domain.ActionLike, "like")); out != nil {
		t.Fatalf("want nil outcome got %+v", out)
	}
}

func TestFailedNotificationKeepsPoints(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "lena", 95)
	if err := f.db.Migrator().DropTable(&models.Notification{}); err != nil {
		t.Fatalf("drop notifications: %v", err)
	}

	out, err := f.dispatcher.RecordAction(context.Background(), ActivityAction{UserID: u.ID, Kind: domain.ActionPost, Points: 10, Reason: "post"})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if out.TotalPoints != 105 || out.Level != 2 || !out.LeveledUp {
		t.Fatalf("outcome: %+v", out)
	}
	stored := f.reload(t, u.ID)
	if stored.Points != 105 || stored.Level != 2 {
		t.Fatalf("stored: points=%d level=%d", stored.Points, stored.Level)
	}
	if got := f.pusher.count(u.ID); got != 0 {
		t.Fatalf("pushed %d payloads without a stored notification", got)
	}
}
