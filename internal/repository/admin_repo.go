package repository

import (
	"context"
	"time"

	"plaza/internal/domain"
	"plaza/internal/models"

	"gorm.io/gorm"
)

type DashboardStats struct {
	TotalUsers     int64         `json:"total_users"`
	TotalPosts     int64         `json:"total_posts"`
	TotalVideos    int64         `json:"total_videos"`
	TotalComments  int64         `json:"total_comments"`
	OnlineUsers    int64         `json:"online_users"`
	PendingReports int64         `json:"pending_reports"`
	TopUsers       []models.User `json:"top_users"`
}

type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var s DashboardStats
	db := r.db.WithContext(ctx)
	counts := []struct {
		model interface{}
		where string
		args  []interface{}
		dst   *int64
	}{
		{&models.User{}, "", nil, &s.TotalUsers},
		{&models.Post{}, "", nil, &s.TotalPosts},
		{&models.Video{}, "", nil, &s.TotalVideos},
		{&models.Comment{}, "", nil, &s.TotalComments},
		{&models.User{}, "is_online = ?", []interface{}{true}, &s.OnlineUsers},
		{&models.Report{}, "status = ?", []interface{}{domain.ReportStatusPending}, &s.PendingReports},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	if err := db.Order("points DESC, id ASC").Limit(5).Find(&s.TopUsers).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ListUsers returns users with search and pagination.
func (r *AdminRepository) ListUsers(ctx context.Context, search string, page, limit int) ([]models.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if search != "" {
		q = q.Where("username LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&users).Error
	return users, total, err
}

// DailyCounts buckets rows of model created since the given time per UTC day.
// Bucketing happens here rather than in SQL so it works on every driver.
func (r *AdminRepository) DailyCounts(ctx context.Context, model interface{}, since time.Time) ([]TimeSeriesPoint, error) {
	var created []time.Time
	err := r.db.WithContext(ctx).Model(model).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Pluck("created_at", &created).Error
	if err != nil {
		return nil, err
	}
	var out []TimeSeriesPoint
	for _, t := range created {
		day := t.UTC().Format("2006-01-02")
		if n := len(out); n > 0 && out[n-1].Date == day {
			out[n-1].Count++
			continue
		}
		out = append(out, TimeSeriesPoint{Date: day, Count: 1})
	}
	return out, nil
}

// DeleteUser removes a user and every row that references them.
func (r *AdminRepository) DeleteUser(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var postIDs, videoIDs []uint
		if err := tx.Model(&models.Post{}).Where("user_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Video{}).Where("user_id = ?", id).Pluck("id", &videoIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Report{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
		}
		if len(videoIDs) > 0 {
			if err := tx.Where("video_id IN ?", videoIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("video_id IN ?", videoIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
		}
		var pollIDs []uint
		if err := tx.Model(&models.Poll{}).Where("user_id = ?", id).Pluck("id", &pollIDs).Error; err != nil {
			return err
		}
		if len(pollIDs) > 0 {
			if err := tx.Where("poll_id IN ?", pollIDs).Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("poll_id IN ?", pollIDs).Delete(&models.PollOption{}).Error; err != nil {
				return err
			}
		}
		steps := []struct {
			where string
			model interface{}
			binds int
		}{
			{"user_id = ?", &models.Vote{}, 1},
			{"user_id = ?", &models.Poll{}, 1},
			{"user_id = ?", &models.Comment{}, 1},
			{"user_id = ?", &models.Like{}, 1},
			{"user_id = ?", &models.Post{}, 1},
			{"user_id = ?", &models.Video{}, 1},
			{"sender_id = ? OR recipient_id = ?", &models.Message{}, 2},
			{"user_id = ? OR related_user_id = ?", &models.Notification{}, 2},
			{"user_id = ?", &models.UserBadge{}, 1},
			{"user_id = ?", &models.LoginDay{}, 1},
			{"user_id = ?", &models.GameScore{}, 1},
			{"reporter_id = ?", &models.Report{}, 1},
		}
		for _, s := range steps {
			args := make([]interface{}, s.binds)
			for i := range args {
				args[i] = id
			}
			if err := tx.Where(s.where, args...).Delete(s.model).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
