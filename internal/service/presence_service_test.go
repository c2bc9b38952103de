package service

import (
	"context"
	"testing"
	"time"

	"plaza/internal/repository"
	"plaza/pkg/logger"
)

func TestSweepOffline(t *testing.T) {
	f := newFixture(t)
	stale := f.createUser(t, "paul", 0)
	fresh := f.createUser(t, "quinn", 0)
	ctx := context.Background()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewPresenceService(repository.NewPresenceRepository(f.db), logger.Nop())

	svc.Now = func() time.Time { return now.Add(-2 * time.Minute) }
	if err := svc.MarkOnline(ctx, stale.ID); err != nil {
		t.Fatalf("mark online: %v", err)
	}
	svc.Now = func() time.Time { return now.Add(-10 * time.Second) }
	if err := svc.MarkOnline(ctx, fresh.ID); err != nil {
		t.Fatalf("mark online: %v", err)
	}

	svc.Now = func() time.Time { return now }
	n, err := svc.SweepOffline(ctx, time.Minute)
	if err != nil || n != 1 {
		t.Fatalf("sweep: want=1 got=%d err=%v", n, err)
	}
	if f.reload(t, stale.ID).IsOnline {
		t.Fatalf("stale user still online")
	}
	if !f.reload(t, fresh.ID).IsOnline {
		t.Fatalf("fresh user went offline")
	}

	n, err = svc.SweepOffline(ctx, time.Minute)
	if err != nil || n != 0 {
		t.Fatalf("second sweep: want=0 got=%d err=%v", n, err)
	}
	online, err := svc.CountOnline(ctx)
	if err != nil || online != 1 {
		t.Fatalf("count online: want=1 got=%d err=%v", online, err)
	}
}

func TestSweepOfflineDefaultThreshold(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "rita", 0)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewPresenceService(repository.NewPresenceRepository(f.db), logger.Nop())

	svc.Now = func() time.Time { return now.Add(-90 * time.Second) }
	if err := svc.MarkOnline(ctx, u.ID); err != nil {
		t.Fatalf("mark online: %v", err)
	}
	svc.Now = func() time.Time { return now }
	if n, err := svc.SweepOffline(ctx, 0); err != nil || n != 1 {
		t.Fatalf("sweep: want=1 got=%d err=%v", n, err)
	}
}
