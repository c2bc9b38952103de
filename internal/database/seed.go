package database

import (
	"errors"

	"plaza/config"
	"plaza/internal/auth"
	"plaza/internal/domain"
	"plaza/internal/models"
	"plaza/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultBadges is the static badge catalog.
var DefaultBadges = []models.Badge{
	{Name: domain.BadgeFirstComment, Description: "Made your first comment", Icon: "fa-comment"},
	{Name: domain.BadgeHundredLikes, Description: "Received 100 likes on your posts", Icon: "fa-heart"},
	{Name: domain.BadgeDailyLogin7, Description: "Logged in for 7 consecutive days", Icon: "fa-calendar-check"},
	{Name: domain.BadgeVideoPioneer, Description: "Uploaded your first video", Icon: "fa-video"},
	{Name: domain.BadgePollMaster, Description: "Created 10 polls", Icon: "fa-poll"},
}

// SeedBadges inserts catalog badges that do not exist yet. Safe to run on every start.
func SeedBadges(db *gorm.DB) error {
	for _, b := range DefaultBadges {
		badge := b
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&badge).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedAdmin creates the admin account on first start. Without a configured
// password a random one is generated and logged once.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig, log *logger.Logger) {
	var existing models.User
	err := db.Where("is_admin = ?", true).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("seed admin lookup failed", "error", err)
		return
	}
	password := cfg.Password
	if password == "" {
		password, err = auth.RandomPassword(8)
		if err != nil {
			log.Error("seed admin password generation failed", "error", err)
			return
		}
		log.Warn("generated admin password, change it after first login", "email", cfg.Email, "password", password)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Error("seed admin hash failed", "error", err)
		return
	}
	admin := &models.User{
		Username:     cfg.Username,
		Email:        cfg.Email,
		PasswordHash: hash,
		IsAdmin:      true,
		IsVerified:   true,
		Points:       0,
		Level:        1,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Error("seed admin create failed", "error", err)
		return
	}
	log.Info("admin account created", "email", cfg.Email)
}
