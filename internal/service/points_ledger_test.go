package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"plaza/internal/domain"
)

func TestLevelForBoundaries(t *testing.T) {
	cases := []struct {
		points int
		want   int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{105, 2},
		{250, 3},
		{-10, 1},
	}
	for _, tc := range cases {
		if got := domain.LevelFor(tc.points); got != tc.want {
			t.Fatalf("LevelFor(%d): want=%d got=%d", tc.points, tc.want, got)
		}
	}
}

func TestAwardReachesLevelTwoWithOneAchievement(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "alice", 0)

	out, err := f.dispatcher.RecordAction(context.Background(), ActivityAction{UserID: u.ID, Kind: domain.ActionGame, Points: 100, Reason: "test"})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if out.TotalPoints != 100 || out.Level != 2 || !out.LeveledUp {
		t.Fatalf("outcome: got points=%d level=%d leveled=%v", out.TotalPoints, out.Level, out.LeveledUp)
	}
	if n := f.countNotifications(t, u.ID, domain.NotificationAchievement); n != 1 {
		t.Fatalf("achievement notifications: want=1 got=%d", n)
	}
	if got := f.pusher.count(u.ID); got != 1 {
		t.Fatalf("pushed payloads: want=1 got=%d", got)
	}
}

func TestAwardAcrossBoundaryThenWithinLevel(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "bob", 95)
	ctx := context.Background()

	res, err := f.ledger.Award(ctx, nil, u.ID, 10, "test")
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if res.User.Points != 105 || res.User.Level != 2 || !res.LeveledUp || res.PreviousLevel != 1 {
		t.Fatalf("first award: got points=%d level=%d leveled=%v prev=%d", res.User.Points, res.User.Level, res.LeveledUp, res.PreviousLevel)
	}
	res, err = f.ledger.Award(ctx, nil, u.ID, 10, "test")
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if res.User.Points != 115 || res.User.Level != 2 || res.LeveledUp {
		t.Fatalf("second award: got points=%d level=%d leveled=%v", res.User.Points, res.User.Level, res.LeveledUp)
	}
	stored := f.reload(t, u.ID)
	if stored.Points != 115 || stored.Level != 2 {
		t.Fatalf("stored: got points=%d level=%d", stored.Points, stored.Level)
	}
}

func TestAwardRejectsNonPositivePoints(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "carol", 10)
	for _, pts := range []int{0, -5} {
		if _, err := f.ledger.Award(context.Background(), nil, u.ID, pts, "test"); !errors.Is(err, domain.ErrInvalidPoints) {
			t.Fatalf("award %d: want ErrInvalidPoints got %v", pts, err)
		}
	}
	if stored := f.reload(t, u.ID); stored.Points != 10 {
		t.Fatalf("points changed: got %d", stored.Points)
	}
}

func TestAwardUnknownUser(t *testing.T) {
	f := newFixture(t)
	if _, err := f.ledger.Award(context.Background(), nil, 9999, 5, "test"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}

func TestConcurrentAwardsSerialize(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "dave", 97)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.dispatcher.RecordAction(context.Background(), ActivityAction{UserID: u.ID, Kind: domain.ActionGame, Points: 5, Reason: "race"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	stored := f.reload(t, u.ID)
	if stored.Points != 107 || stored.Level != 2 {
		t.Fatalf("stored: want points=107 level=2 got points=%d level=%d", stored.Points, stored.Level)
	}
	if n := f.countNotifications(t, u.ID, domain.NotificationAchievement); n != 1 {
		t.Fatalf("achievement notifications: want=1 got=%d", n)
	}
}
