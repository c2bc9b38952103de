package service

import (
	"context"
	"time"

	"plaza/internal/repository"
	"plaza/pkg/logger"
)

// DefaultOfflineAfter is how long a user may go unseen before the sweep marks them offline.
const DefaultOfflineAfter = time.Minute

type PresenceService struct {
	repo *repository.PresenceRepository
	log  *logger.Logger

	Now func() time.Time
}

func NewPresenceService(repo *repository.PresenceRepository, log *logger.Logger) *PresenceService {
	return &PresenceService{repo: repo, log: log, Now: time.Now}
}

func (s *PresenceService) MarkOnline(ctx context.Context, userID uint) error {
	return s.repo.MarkOnline(ctx, userID, s.Now())
}

func (s *PresenceService) MarkOffline(ctx context.Context, userID uint) error {
	return s.repo.MarkOffline(ctx, userID, s.Now())
}

// SweepOffline marks offline every online user not seen within threshold.
// It is idempotent; a non-positive threshold falls back to DefaultOfflineAfter.
func (s *PresenceService) SweepOffline(ctx context.Context, threshold time.Duration) (int64, error) {
	if threshold <= 0 {
		threshold = DefaultOfflineAfter
	}
	n, err := s.repo.SweepOffline(ctx, s.Now().Add(-threshold))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Debug("presence sweep", "offline", n)
	}
	return n, nil
}

func (s *PresenceService) CountOnline(ctx context.Context) (int64, error) {
	return s.repo.CountOnline(ctx)
}
