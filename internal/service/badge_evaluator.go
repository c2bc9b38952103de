package service

import (
	"context"
	"time"

	"plaza/internal/domain"
	"plaza/internal/models"
	"plaza/internal/repository"
	"plaza/pkg/logger"

	"gorm.io/gorm"
)

// BadgeMetric names a per-user counter a badge rule compares against.
type BadgeMetric string

const (
	MetricComments    BadgeMetric = "comments"
	MetricPostLikes   BadgeMetric = "post_likes"
	MetricLoginStreak BadgeMetric = "login_streak"
	MetricVideos      BadgeMetric = "videos"
	MetricPolls       BadgeMetric = "polls"
)

type BadgeRule struct {
	Badge     string
	Metric    BadgeMetric
	Threshold int64
}

// DefaultBadgeRules are evaluated in this order.
var DefaultBadgeRules = []BadgeRule{
	{Badge: domain.BadgeFirstComment, Metric: MetricComments, Threshold: 1},
	{Badge: domain.BadgeHundredLikes, Metric: MetricPostLikes, Threshold: 100},
	{Badge: domain.BadgeDailyLogin7, Metric: MetricLoginStreak, Threshold: 7},
	{Badge: domain.BadgeVideoPioneer, Metric: MetricVideos, Threshold: 1},
	{Badge: domain.BadgePollMaster, Metric: MetricPolls, Threshold: 10},
}

// streakWindow bounds how many login days are read to measure a streak.
const streakWindow = 366

type BadgeEvaluator struct {
	db       *gorm.DB
	badges   *repository.BadgeRepository
	activity *repository.ActivityRepository
	rules    []BadgeRule
	log      *logger.Logger

	Now func() time.Time
}

func NewBadgeEvaluator(db *gorm.DB, badges *repository.BadgeRepository, activity *repository.ActivityRepository, log *logger.Logger) *BadgeEvaluator {
	return &BadgeEvaluator{
		db:       db,
		badges:   badges,
		activity: activity,
		rules:    DefaultBadgeRules,
		log:      log,
		Now:      time.Now,
	}
}

// Evaluate grants every badge whose rule now holds and the user does not
// hold yet, and returns only the badges granted by this call.
func (e *BadgeEvaluator) Evaluate(ctx context.Context, tx *gorm.DB, userID uint) ([]models.Badge, error) {
	if tx == nil {
		tx = e.db
	}
	badges := e.badges.WithTx(tx)
	activity := e.activity.WithTx(tx)

	catalog, err := badges.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]models.Badge, len(catalog))
	for _, b := range catalog {
		byName[b.Name] = b
	}

	metrics := make(map[BadgeMetric]int64, len(e.rules))
	var granted []models.Badge
	for _, rule := range e.rules {
		badge, ok := byName[rule.Badge]
		if !ok {
			e.log.Warn("badge rule skipped, badge not in catalog", "badge", rule.Badge)
			continue
		}
		value, seen := metrics[rule.Metric]
		if !seen {
			value, err = e.metric(ctx, activity, rule.Metric, userID)
			if err != nil {
				return nil, err
			}
			metrics[rule.Metric] = value
		}
		if value < rule.Threshold {
			continue
		}
		has, err := badges.HasBadge(ctx, userID, badge.ID)
		if err != nil {
			return nil, err
		}
		if has {
			continue
		}
		ok, err = badges.Grant(ctx, userID, badge.ID, e.Now())
		if err != nil {
			return nil, err
		}
		if ok {
			granted = append(granted, badge)
		}
	}
	return granted, nil
}

func (e *BadgeEvaluator) metric(ctx context.Context, activity *repository.ActivityRepository, m BadgeMetric, userID uint) (int64, error) {
	switch m {
	case MetricComments:
		return activity.CountComments(ctx, userID)
	case MetricPostLikes:
		return activity.CountPostLikes(ctx, userID)
	case MetricVideos:
		return activity.CountVideos(ctx, userID)
	case MetricPolls:
		return activity.CountPolls(ctx, userID)
	case MetricLoginStreak:
		days, err := activity.RecentLoginDays(ctx, userID, streakWindow)
		if err != nil {
			return 0, err
		}
		return LoginStreak(days, e.Now()), nil
	}
	return 0, nil
}

// LoginStreak counts consecutive days ending at today in days, which must be
// sorted newest first as YYYY-MM-DD in UTC.
func LoginStreak(days []string, today time.Time) int64 {
	expect := today.UTC()
	var streak int64
	for _, d := range days {
		if d != expect.Format(DayLayout) {
			break
		}
		streak++
		expect = expect.AddDate(0, 0, -1)
	}
	return streak
}

// DayLayout is the format of a LoginDay.
const DayLayout = "2006-01-02"
