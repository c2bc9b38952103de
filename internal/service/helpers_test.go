package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"plaza/config"
	"plaza/internal/database"
	"plaza/internal/domain"
	"plaza/internal/models"
	"plaza/internal/repository"
	"plaza/pkg/logger"

	"gorm.io/gorm"
)

// newTestDB opens a migrated, badge-seeded SQLite database in a temp dir.
// Write transactions take the database lock up front so concurrent awards serialize.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "plaza.db") + "?_txlock=immediate&_busy_timeout=5000"
	db, err := database.NewDB(&config.DatabaseConfig{
		Driver:          "sqlite",
		DSN:             dsn,
		MaxIdleConns:    2,
		MaxOpenConns:    4,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.SeedBadges(db); err != nil {
		t.Fatalf("seed badges: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type recordingPusher struct {
	mu       sync.Mutex
	payloads map[uint][]interface{}
}

func (p *recordingPusher) SendToUser(userID uint, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.payloads == nil {
		p.payloads = make(map[uint][]interface{})
	}
	p.payloads[userID] = append(p.payloads[userID], payload)
}

func (p *recordingPusher) count(userID uint) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads[userID])
}

type fixture struct {
	db            *gorm.DB
	users         *repository.UserRepository
	activity      *repository.ActivityRepository
	badgeRepo     *repository.BadgeRepository
	pusher        *recordingPusher
	notifications *NotificationService
	ledger        *PointsLedger
	evaluator     *BadgeEvaluator
	dispatcher    *ActivityDispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	log := logger.Nop()
	f := &fixture{
		db:        db,
		users:     repository.NewUserRepository(db),
		activity:  repository.NewActivityRepository(db),
		badgeRepo: repository.NewBadgeRepository(db),
		pusher:    &recordingPusher{},
	}
	f.notifications = NewNotificationService(repository.NewNotificationRepository(db), f.users, f.pusher, nil, log)
	f.ledger = NewPointsLedger(db, f.users, log)
	f.evaluator = NewBadgeEvaluator(db, f.badgeRepo, f.activity, log)
	f.dispatcher = NewActivityDispatcher(db, f.users, f.activity, f.ledger, f.evaluator, f.notifications, log)
	return f
}

func (f *fixture) createUser(t *testing.T, username string, points int) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Points:   points,
		Level:    domain.LevelFor(points),
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func (f *fixture) countNotifications(t *testing.T, userID uint, kind string) int64 {
	t.Helper()
	var n int64
	err := f.db.Model(&models.Notification{}).Where("user_id = ? AND kind = ?", userID, kind).Count(&n).Error
	if err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	return n
}

func (f *fixture) reload(t *testing.T, id uint) *models.User {
	t.Helper()
	u, err := f.users.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload user %d: %v", id, err)
	}
	return u
}
