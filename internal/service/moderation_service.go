package service

import (
	"context"
	"errors"
	"strconv"

	"plaza/internal/auth"
	"plaza/internal/domain"
	"plaza/internal/models"
	"plaza/internal/repository"
	"plaza/pkg/cloudinary"
	"plaza/pkg/logger"

	"gorm.io/gorm"
)

var (
	ErrCannotDeleteAdmin = errors.New("cannot delete an admin user")
	ErrReportTarget      = errors.New("report target must be a post or a comment")
)

const (
	ReportTargetPost    = "post"
	ReportTargetComment = "comment"
)

// AuditMeta identifies the request behind an admin action.
type AuditMeta struct {
	AdminID   uint
	IP        string
	UserAgent string
}

// ModerationService handles user reports and admin actions on users and content.
// Every admin action writes an audit log entry.
type ModerationService struct {
	users    *repository.UserRepository
	posts    *repository.PostRepository
	comments *repository.CommentRepository
	videos   *repository.VideoRepository
	reports  *repository.ReportRepository
	admin    *repository.AdminRepository
	audit    *repository.AuditLogRepository
	media    cloudinary.Client
	log      *logger.Logger
}

func NewModerationService(users *repository.UserRepository, posts *repository.PostRepository, comments *repository.CommentRepository, videos *repository.VideoRepository, reports *repository.ReportRepository, admin *repository.AdminRepository, audit *repository.AuditLogRepository, media cloudinary.Client, log *logger.Logger) *ModerationService {
	return &ModerationService{
		users:    users,
		posts:    posts,
		comments: comments,
		videos:   videos,
		reports:  reports,
		admin:    admin,
		audit:    audit,
		media:    media,
		log:      log,
	}
}

// Report files a report against a post or a comment.
func (s *ModerationService) Report(ctx context.Context, reporterID uint, targetType string, targetID uint, reason, description string) (*models.Report, error) {
	r := &models.Report{ReporterID: reporterID, Reason: reason, Description: description, Status: domain.ReportStatusPending}
	switch targetType {
	case ReportTargetPost:
		if _, err := s.posts.GetByID(ctx, targetID); err != nil {
			return nil, notFound(err)
		}
		r.PostID = &targetID
	case ReportTargetComment:
		if _, err := s.comments.GetByID(ctx, targetID); err != nil {
			return nil, notFound(err)
		}
		r.CommentID = &targetID
	default:
		return nil, ErrReportTarget
	}
	if err := s.reports.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ModerationService) ListReports(ctx context.Context, status string, limit, offset int) ([]models.Report, error) {
	return s.reports.List(ctx, status, limit, offset)
}

func (s *ModerationService) SetReportStatus(ctx context.Context, meta AuditMeta, id uint, status string) error {
	if err := s.reports.SetStatus(ctx, id, status); err != nil {
		return notFound(err)
	}
	s.record(ctx, meta, "report."+status, "report", id)
	return nil
}

// TogglePostPin flips the pinned flag and returns the new value.
func (s *ModerationService) TogglePostPin(ctx context.Context, meta AuditMeta, id uint) (bool, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return false, notFound(err)
	}
	pinned := !p.IsPinned
	if err := s.posts.SetPinned(ctx, id, pinned); err != nil {
		return false, notFound(err)
	}
	s.record(ctx, meta, pinAction("post", pinned), "post", id)
	return pinned, nil
}

func (s *ModerationService) DeletePost(ctx context.Context, meta AuditMeta, id uint) error {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	if p.ImageURL != "" {
		s.deleteMedia(ctx, p.ImageURL, cloudinary.ResourceImage)
	}
	s.record(ctx, meta, "post.delete", "post", id)
	return nil
}

func (s *ModerationService) ToggleVideoPin(ctx context.Context, meta AuditMeta, id uint) (bool, error) {
	v, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return false, notFound(err)
	}
	pinned := !v.IsPinned
	if err := s.videos.SetPinned(ctx, id, pinned); err != nil {
		return false, notFound(err)
	}
	s.record(ctx, meta, pinAction("video", pinned), "video", id)
	return pinned, nil
}

func (s *ModerationService) DeleteVideo(ctx context.Context, meta AuditMeta, id uint) error {
	v, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if err := s.videos.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.deleteMedia(ctx, v.URL, cloudinary.ResourceVideo)
	s.record(ctx, meta, "video.delete", "video", id)
	return nil
}

// ToggleVerify flips the verified flag and returns the new value.
func (s *ModerationService) ToggleVerify(ctx context.Context, meta AuditMeta, userID uint) (bool, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, notFound(err)
	}
	verified := !u.IsVerified
	if err := s.users.SetVerified(ctx, userID, verified); err != nil {
		return false, notFound(err)
	}
	action := "user.unverify"
	if verified {
		action = "user.verify"
	}
	s.record(ctx, meta, action, "user", userID)
	return verified, nil
}

// ResetPassword sets a random temporary password and returns it.
func (s *ModerationService) ResetPassword(ctx context.Context, meta AuditMeta, userID uint) (string, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return "", notFound(err)
	}
	password, err := auth.RandomPassword(6)
	if err != nil {
		return "", err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	if err := s.users.SetPasswordHash(ctx, userID, hash); err != nil {
		return "", err
	}
	s.record(ctx, meta, "user.reset_password", "user", userID)
	return password, nil
}

func (s *ModerationService) DeleteUser(ctx context.Context, meta AuditMeta, userID uint) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return notFound(err)
	}
	if u.IsAdmin {
		return ErrCannotDeleteAdmin
	}
	if err := s.admin.DeleteUser(ctx, userID); err != nil {
		return notFound(err)
	}
	s.record(ctx, meta, "user.delete", "user", userID)
	return nil
}

func (s *ModerationService) deleteMedia(ctx context.Context, url, resourceType string) {
	publicID, ok := cloudinary.PublicIDFromURL(url)
	if !ok {
		return
	}
	if err := s.media.Delete(ctx, publicID, resourceType); err != nil {
		s.log.Warn("media delete failed", "public_id", publicID, "error", err)
	}
}

func (s *ModerationService) record(ctx context.Context, meta AuditMeta, action, resource string, id uint) {
	adminID := meta.AdminID
	entry := &models.AuditLog{
		UserID:     &adminID,
		Action:     action,
		Resource:   resource,
		ResourceID: strconv.FormatUint(uint64(id), 10),
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.log.Warn("audit log write failed", "action", action, "error", err)
	}
}

func pinAction(resource string, pinned bool) string {
	if pinned {
		return resource + ".pin"
	}
	return resource + ".unpin"
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
