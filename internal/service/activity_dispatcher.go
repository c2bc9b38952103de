package service

import (
	"context"
	"errors"
	"fmt"

	"plaza/internal/domain"
	"plaza/internal/models"
	"plaza/internal/repository"
	"plaza/pkg/logger"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// ActivityAction is one rewardable user action.
type ActivityAction struct {
	UserID uint   `validate:"required"`
	Kind   string `validate:"required,activity_kind"`
	Points int    `validate:"gte=0"`
	Reason string `validate:"max=255"`
}

// NewAction builds an action worth the fixed points for kind.
func NewAction(userID uint, kind, reason string) ActivityAction {
	return ActivityAction{UserID: userID, Kind: kind, Points: PointsFor(kind), Reason: reason}
}

// PointsFor returns the fixed reward for an action kind, 0 for unknown kinds and games.
func PointsFor(kind string) int {
	return domain.ActionPoints[kind]
}

type ActionOutcome struct {
	PointsAwarded int            `json:"points_awarded"`
	TotalPoints   int            `json:"total_points"`
	Level         int            `json:"level"`
	LeveledUp     bool           `json:"leveled_up"`
	NewBadges     []models.Badge `json:"new_badges"`
}

// ActivityDispatcher turns a user action into points, a possible level-up,
// newly unlocked badges and the notifications for them, in one transaction.
type ActivityDispatcher struct {
	db            *gorm.DB
	users         *repository.UserRepository
	activity      *repository.ActivityRepository
	ledger        *PointsLedger
	badges        *BadgeEvaluator
	notifications *NotificationService
	validate      *validator.Validate
	log           *logger.Logger
}

func NewActivityDispatcher(db *gorm.DB, users *repository.UserRepository, activity *repository.ActivityRepository, ledger *PointsLedger, badges *BadgeEvaluator, notifications *NotificationService, log *logger.Logger) *ActivityDispatcher {
	v := validator.New()
	err := v.RegisterValidation("activity_kind", func(fl validator.FieldLevel) bool {
		_, ok := domain.ActionPoints[fl.Field().String()]
		return ok
	})
	if err != nil {
		panic(fmt.Sprintf("register activity_kind validation: %v", err))
	}
	return &ActivityDispatcher{
		db:            db,
		users:         users,
		activity:      activity,
		ledger:        ledger,
		badges:        badges,
		notifications: notifications,
		validate:      v,
		log:           log,
	}
}

func (d *ActivityDispatcher) RecordAction(ctx context.Context, a ActivityAction) (*ActionOutcome, error) {
	return d.record(ctx, a, nil)
}

// RecordLogin stores the user's login for day (UTC, YYYY-MM-DD) and, on the
// first login that day, records the login action in the same transaction.
// It returns a nil outcome when the day was already recorded.
func (d *ActivityDispatcher) RecordLogin(ctx context.Context, userID uint, day string) (*ActionOutcome, error) {
	return d.record(ctx, NewAction(userID, domain.ActionLogin, "daily login"), func(tx *gorm.DB) (bool, error) {
		return d.activity.WithTx(tx).RecordLoginDay(ctx, userID, day)
	})
}

// record runs the action in one transaction. A non-nil gate runs first in
// that transaction; when it returns false nothing else happens and the
// outcome is nil.
func (d *ActivityDispatcher) record(ctx context.Context, a ActivityAction, gate func(tx *gorm.DB) (bool, error)) (*ActionOutcome, error) {
	if err := d.validate.Struct(a); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAction, err)
	}

	out := &ActionOutcome{}
	skipped := false
	var pending []*models.Notification
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pending = pending[:0]
		if gate != nil {
			ok, err := gate(tx)
			if err != nil {
				return err
			}
			if !ok {
				skipped = true
				return nil
			}
		}
		if a.Points > 0 {
			res, err := d.ledger.Award(ctx, tx, a.UserID, a.Points, a.Reason)
			if err != nil {
				return err
			}
			out.PointsAwarded = a.Points
			out.TotalPoints = res.User.Points
			out.Level = res.User.Level
			out.LeveledUp = res.LeveledUp
			if res.LeveledUp {
				d.notifyInSavepoint(ctx, tx, &pending, NotifyInput{
					UserID: a.UserID,
					Kind:   domain.NotificationAchievement,
					Text:   fmt.Sprintf("Congratulations! You reached level %d!", res.User.Level),
				})
			}
		} else {
			u, err := d.users.WithTx(tx).GetByID(ctx, a.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("record action user %d: %w", a.UserID, domain.ErrNotFound)
				}
				return err
			}
			out.TotalPoints = u.Points
			out.Level = u.Level
		}

		granted, err := d.badges.Evaluate(ctx, tx, a.UserID)
		if err != nil {
			return err
		}
		out.NewBadges = granted
		for _, b := range granted {
			d.notifyInSavepoint(ctx, tx, &pending, NotifyInput{
				UserID: a.UserID,
				Kind:   domain.NotificationBadge,
				Text:   fmt.Sprintf("You earned the %q badge!", b.Name),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if skipped {
		return nil, nil
	}

	for _, n := range pending {
		d.notifications.Deliver(ctx, n)
	}
	d.log.Debug("activity recorded", "user_id", a.UserID, "kind", a.Kind, "points", out.PointsAwarded, "badges", len(out.NewBadges))
	return out, nil
}

// notifyInSavepoint inserts a notification inside a savepoint of tx. A failure
// rolls back to the savepoint only and is logged.
func (d *ActivityDispatcher) notifyInSavepoint(ctx context.Context, tx *gorm.DB, pending *[]*models.Notification, in NotifyInput) {
	var created *models.Notification
	err := tx.Transaction(func(sp *gorm.DB) error {
		n, err := d.notifications.WithTx(sp).Create(ctx, in)
		if err != nil {
			return err
		}
		created = n
		return nil
	})
	if err != nil {
		d.log.Warn("notification dropped", "user_id", in.UserID, "kind", in.Kind, "error", err)
		return
	}
	*pending = append(*pending, created)
}

// Reward records an action that follows an already committed write. Errors
// are logged and yield a nil outcome; the caller's write stands either way.
func (d *ActivityDispatcher) Reward(ctx context.Context, a ActivityAction) *ActionOutcome {
	out, err := d.RecordAction(ctx, a)
	if err != nil {
		d.log.Error("activity reward failed", "user_id", a.UserID, "kind", a.Kind, "error", err)
		return nil
	}
	return out
}
