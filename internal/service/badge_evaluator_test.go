package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"plaza/internal/domain"
	"plaza/internal/models"
)

func (f *fixture) addComment(t *testing.T, userID uint) {
	t.Helper()
	post := &models.Post{UserID: userID, Title: "hello", Content: "world"}
	if err := f.db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	c := &models.Comment{UserID: userID, PostID: &post.ID, Content: "first"}
	if err := f.db.Create(c).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
}

func TestFirstCommentBadgeGrantedOnce(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "erin", 0)
	f.addComment(t, u.ID)
	ctx := context.Background()

	granted, err := f.evaluator.Evaluate(ctx, nil, u.ID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(granted) != 1 || granted[0].Name != domain.BadgeFirstComment {
		t.Fatalf("first evaluate: got %+v", granted)
	}

	granted, err = f.evaluator.Evaluate(ctx, nil, u.ID)
	if err != nil {
		t.Fatalf("evaluate again: %v", err)
	}
	if len(granted) != 0 {
		t.Fatalf("second evaluate granted %d badges", len(granted))
	}
	held, err := f.badgeRepo.ListByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("list badges: %v", err)
	}
	if len(held) != 1 {
		t.Fatalf("held badges: want=1 got=%d", len(held))
	}
}

func TestGrantIsIdempotent(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "frank", 0)
	ctx := context.Background()
	badge, err := f.badgeRepo.GetByName(ctx, domain.BadgeVideoPioneer)
	if err != nil {
		t.Fatalf("get badge: %v", err)
	}
	ok, err := f.badgeRepo.Grant(ctx, u.ID, badge.ID, time.Now())
	if err != nil || !ok {
		t.Fatalf("first grant: ok=%v err=%v", ok, err)
	}
	ok, err = f.badgeRepo.Grant(ctx, u.ID, badge.ID, time.Now())
	if err != nil || ok {
		t.Fatalf("second grant: ok=%v err=%v", ok, err)
	}
}

func TestEvaluateSkipsBadgeMissingFromCatalog(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "gina", 0)
	if err := f.db.Where("name = ?", domain.BadgeVideoPioneer).Delete(&models.Badge{}).Error; err != nil {
		t.Fatalf("delete badge: %v", err)
	}
	v := &models.Video{UserID: u.ID, Title: "clip", URL: "https://res.cloudinary.com/demo/video/upload/plaza/videos/a.mp4"}
	if err := f.db.Create(v).Error; err != nil {
		t.Fatalf("create video: %v", err)
	}
	granted, err := f.evaluator.Evaluate(context.Background(), nil, u.ID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(granted) != 0 {
		t.Fatalf("granted %+v", granted)
	}
}

func TestDailyLoginBadgeAfterSevenDayStreak(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "hank", 0)
	ctx := context.Background()
	today := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f.evaluator.Now = func() time.Time { return today }

	for i := 0; i < 6; i++ {
		if _, err := f.activity.RecordLoginDay(ctx, u.ID, today.AddDate(0, 0, -i).Format(DayLayout)); err != nil {
			t.Fatalf("record day: %v", err)
		}
	}
	granted, err := f.evaluator.Evaluate(ctx, nil, u.ID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(granted) != 0 {
		t.Fatalf("six days granted %+v", granted)
	}

	if _, err := f.activity.RecordLoginDay(ctx, u.ID, today.AddDate(0, 0, -6).Format(DayLayout)); err != nil {
		t.Fatalf("record day: %v", err)
	}
	granted, err = f.evaluator.Evaluate(ctx, nil, u.ID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(granted) != 1 || granted[0].Name != domain.BadgeDailyLogin7 {
		t.Fatalf("seven days: got %+v", granted)
	}
}

func TestLoginStreak(t *testing.T) {
	today := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		days []string
		want int64
	}{
		{"empty", nil, 0},
		{"today only", []string{"2026-01-02"}, 1},
		{"across year", []string{"2026-01-02", "2026-01-01", "2025-12-31"}, 3},
		{"gap", []string{"2026-01-02", "2025-12-31"}, 1},
		{"not today", []string{"2026-01-01", "2025-12-31"}, 0},
	}
	for _, tc := range cases {
		if got := LoginStreak(tc.days, today); got != tc.want {
			t.Fatalf("%s: want=%d got=%d", tc.name, tc.want, got)
		}
	}
}

func (f *fixture) addPostReactions(t *testing.T, postID uint, prefix string, n int, isLike bool) {
	t.Helper()
	for i := 0; i < n; i++ {
		u := f.createUser(t, fmt.Sprintf("%s%d", prefix, i), 0)
		if err := f.db.Create(&models.Like{UserID: u.ID, PostID: &postID, IsLike: isLike}).Error; err != nil {
			t.Fatalf("create reaction: %v", err)
		}
	}
}

func TestHundredLikesBadgeIgnoresDislikes(t *testing.T) {
	f := newFixture(t)
	author := f.createUser(t, "mona", 0)
	post := &models.Post{UserID: author.ID, Title: "popular", Content: "post"}
	if err := f.db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	ctx := context.Background()

	f.addPostReactions(t, post.ID, "fan", 99, true)
	f.addPostReactions(t, post.ID, "critic", 5, false)
	granted, err := f.evaluator.Evaluate(ctx, nil, author.ID)
	if err != nil {
		t.Fatalf("evaluate at 99 likes: %v", err)
	}
	if len(granted) != 0 {
		t.Fatalf("99 likes granted %+v", granted)
	}

	f.addPostReactions(t, post.ID, "latefan", 1, true)
	granted, err = f.evaluator.Evaluate(ctx, nil, author.ID)
	if err != nil {
		t.Fatalf("evaluate at 100 likes: %v", err)
	}
	if len(granted) != 1 || granted[0].Name != domain.BadgeHundredLikes {
		t.Fatalf("100 likes: got %+v", granted)
	}

	granted, err = f.evaluator.Evaluate(ctx, nil, author.ID)
	if err != nil {
		t.Fatalf("evaluate again: %v", err)
	}
	if len(granted) != 0 {
		t.Fatalf("second evaluate granted %+v", granted)
	}
}
