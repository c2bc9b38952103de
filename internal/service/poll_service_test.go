package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"plaza/internal/domain"
	"plaza/internal/repository"
	"plaza/pkg/logger"
)

func TestPollVoteFlow(t *testing.T) {
	f := newFixture(t)
	author := f.createUser(t, "uma", 0)
	voter := f.createUser(t, "vic", 0)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	polls := NewPollService(repository.NewPollRepository(f.db), f.dispatcher, logger.Nop())
	polls.Now = func() time.Time { return now }

	if _, _, err := polls.Create(ctx, author.ID, "Tabs or spaces?", []string{"tabs", " "}, 0); !errors.Is(err, ErrPollOptions) {
		t.Fatalf("one option: want ErrPollOptions got %v", err)
	}
	p, out, err := polls.Create(ctx, author.ID, "Tabs or spaces?", []string{"tabs", "spaces"}, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out == nil || out.PointsAwarded != domain.ActionPoints[domain.ActionPollCreate] {
		t.Fatalf("create reward: %+v", out)
	}

	if _, err := polls.Vote(ctx, voter.ID, p.ID, 99999); !errors.Is(err, domain.ErrInvalidPollOption) {
		t.Fatalf("foreign option: want ErrInvalidPollOption got %v", err)
	}
	if _, err := polls.Vote(ctx, voter.ID, p.ID, p.Options[0].ID); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if _, err := polls.Vote(ctx, voter.ID, p.ID, p.Options[1].ID); err != nil {
		t.Fatalf("change vote: %v", err)
	}
	res, err := polls.Results(ctx, p.ID, voter.ID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if res.TotalVotes != 1 || res.Options[1].Votes != 1 || res.Options[1].Percentage != 100 {
		t.Fatalf("results: %+v", res)
	}
	if res.MyOptionID == nil || *res.MyOptionID != p.Options[1].ID {
		t.Fatalf("my option: %v", res.MyOptionID)
	}

	polls.Now = func() time.Time { return now.Add(2 * time.Hour) }
	if _, err := polls.Vote(ctx, voter.ID, p.ID, p.Options[0].ID); !errors.Is(err, domain.ErrPollClosed) {
		t.Fatalf("expired: want ErrPollClosed got %v", err)
	}
	res, err = polls.Results(ctx, p.ID, 0)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if res.IsActive {
		t.Fatalf("expired poll still active")
	}
}
