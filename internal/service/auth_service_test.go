package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"plaza/config"
	"plaza/internal/database"
	"plaza/internal/domain"
	"plaza/internal/models"
	"plaza/internal/repository"
	"plaza/pkg/logger"
)

func newTestAuthService(f *fixture) *AuthService {
	cfg := &config.Config{JWT: config.JWTConfig{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "plaza-test",
	}}
	presence := NewPresenceService(repository.NewPresenceRepository(f.db), logger.Nop())
	return NewAuthService(cfg, f.users, f.dispatcher, presence, logger.Nop())
}

func TestLoginRewardsOncePerDay(t *testing.T) {
	f := newFixture(t)
	svc := newTestAuthService(f)
	ctx := context.Background()
	day := time.Date(2026, 7, 4, 10, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return day }

	if _, _, err := svc.Register(ctx, "Wendy@Example.com", "wendy", "correct-horse"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.Register(ctx, "wendy@example.com", "wendy2", "correct-horse"); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate email: want ErrEmailExists got %v", err)
	}
	if _, err := svc.Login(ctx, "wendy@example.com", "wrong"); !errors.Is(err, ErrInvalidCreds) {
		t.Fatalf("bad password: want ErrInvalidCreds got %v", err)
	}

	res, err := svc.Login(ctx, "wendy@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Reward == nil || res.Reward.PointsAwarded != domain.ActionPoints[domain.ActionLogin] {
		t.Fatalf("first login reward: %+v", res.Reward)
	}
	if !f.reload(t, res.User.ID).IsOnline {
		t.Fatalf("user not marked online")
	}

	res, err = svc.Login(ctx, "wendy@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if res.Reward != nil {
		t.Fatalf("second login same day rewarded: %+v", res.Reward)
	}

	svc.Now = func() time.Time { return day.AddDate(0, 0, 1) }
	res, err = svc.Login(ctx, "wendy@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("next day login: %v", err)
	}
	if res.Reward == nil || res.User.Points != 2*domain.ActionPoints[domain.ActionLogin] {
		t.Fatalf("next day: reward=%+v points=%d", res.Reward, res.User.Points)
	}
}

func TestRefreshTokenIssuesNewPair(t *testing.T) {
	f := newFixture(t)
	svc := newTestAuthService(f)
	ctx := context.Background()
	_, tokens, err := svc.Register(ctx, "xena@example.com", "xena", "correct-horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	pair, err := svc.RefreshToken(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("empty pair: %+v", pair)
	}
	if _, err := svc.RefreshToken(ctx, tokens.AccessToken); err == nil {
		t.Fatalf("access token accepted as refresh token")
	}
}

func TestFailedLoginRewardIsPaidOnRetry(t *testing.T) {
	f := newFixture(t)
	svc := newTestAuthService(f)
	ctx := context.Background()
	day := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return day }

	u, _, err := svc.Register(ctx, "yara@example.com", "yara", "correct-horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := f.db.Migrator().DropTable(&models.Badge{}); err != nil {
		t.Fatalf("drop badges: %v", err)
	}
	res, err := svc.Login(ctx, "yara@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login with failing reward: %v", err)
	}
	if res.Reward != nil || res.Tokens.AccessToken == "" {
		t.Fatalf("failing reward: reward=%+v tokens=%+v", res.Reward, res.Tokens)
	}
	days, err := f.activity.RecentLoginDays(ctx, u.ID, 10)
	if err != nil || len(days) != 0 {
		t.Fatalf("login day kept after failed reward: days=%v err=%v", days, err)
	}

	if err := f.db.AutoMigrate(&models.Badge{}); err != nil {
		t.Fatalf("restore badges: %v", err)
	}
	if err := database.SeedBadges(f.db); err != nil {
		t.Fatalf("seed badges: %v", err)
	}
	res, err = svc.Login(ctx, "yara@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("retry login: %v", err)
	}
	if res.Reward == nil || res.Reward.PointsAwarded != domain.ActionPoints[domain.ActionLogin] {
		t.Fatalf("retry reward: %+v", res.Reward)
	}
	if stored := f.reload(t, u.ID); stored.Points != domain.ActionPoints[domain.ActionLogin] {
		t.Fatalf("stored points: want=%d got=%d", domain.ActionPoints[domain.ActionLogin], stored.Points)
	}
}
