package service

import (
	"context"
	"errors"
	"fmt"

	"plaza/internal/domain"
	"plaza/internal/models"
	"plaza/internal/repository"
	"plaza/pkg/logger"

	"gorm.io/gorm"
)

type AwardResult struct {
	User          *models.User
	PreviousLevel int
	LeveledUp     bool
}

// PointsLedger owns every write to a user's points and level.
type PointsLedger struct {
	db    *gorm.DB
	users *repository.UserRepository
	log   *logger.Logger
}

func NewPointsLedger(db *gorm.DB, users *repository.UserRepository, log *logger.Logger) *PointsLedger {
	return &PointsLedger{db: db, users: users, log: log}
}

// Award adds points to a user and raises the level when the new total
// crosses a level boundary. The user row is locked for the read-modify-write,
// so concurrent awards serialize. With a nil tx the ledger runs its own transaction.
func (l *PointsLedger) Award(ctx context.Context, tx *gorm.DB, userID uint, points int, reason string) (*AwardResult, error) {
	if points <= 0 {
		return nil, domain.ErrInvalidPoints
	}
	if tx != nil {
		return l.award(ctx, tx, userID, points, reason)
	}
	var res *AwardResult
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = l.award(ctx, tx, userID, points, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (l *PointsLedger) award(ctx context.Context, tx *gorm.DB, userID uint, points int, reason string) (*AwardResult, error) {
	users := l.users.WithTx(tx)
	u, err := users.GetForUpdate(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("award user %d: %w", userID, domain.ErrNotFound)
		}
		return nil, err
	}
	res := &AwardResult{PreviousLevel: u.Level}
	u.Points += points
	if lvl := domain.LevelFor(u.Points); lvl > u.Level {
		u.Level = lvl
		res.LeveledUp = true
	}
	if err := users.SetPointsAndLevel(ctx, u.ID, u.Points, u.Level); err != nil {
		return nil, err
	}
	res.User = u
	l.log.Debug("points awarded", "user_id", userID, "points", points, "total", u.Points, "level", u.Level, "reason", reason)
	return res, nil
}
