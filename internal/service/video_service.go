package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"plaza/internal/domain"
	"plaza/internal/models"
	"plaza/internal/repository"
	"plaza/pkg/cloudinary"
	"plaza/pkg/logger"

	"gorm.io/gorm"
)

type VideoView struct {
	models.Video
	Author   models.UserCompact `json:"author"`
	Likes    int64              `json:"likes"`
	Dislikes int64              `json:"dislikes"`
	Comments []models.Comment   `json:"comments"`
}

type VideoService struct {
	videos        *repository.VideoRepository
	comments      *repository.CommentRepository
	reactions     *repository.ReactionRepository
	users         *repository.UserRepository
	media         cloudinary.Client
	dispatcher    *ActivityDispatcher
	notifications *NotificationService
	log           *logger.Logger
}

func NewVideoService(videos *repository.VideoRepository, comments *repository.CommentRepository, reactions *repository.ReactionRepository, users *repository.UserRepository, media cloudinary.Client, dispatcher *ActivityDispatcher, notifications *NotificationService, log *logger.Logger) *VideoService {
	return &VideoService{
		videos:        videos,
		comments:      comments,
		reactions:     reactions,
		users:         users,
		media:         media,
		dispatcher:    dispatcher,
		notifications: notifications,
		log:           log,
	}
}

func (s *VideoService) Upload(ctx context.Context, userID uint, title, description string, file io.Reader) (*models.Video, *ActionOutcome, error) {
	up, err := s.media.UploadVideo(ctx, file, cloudinary.FolderVideos)
	if err != nil {
		return nil, nil, fmt.Errorf("upload video: %w", err)
	}
	v := &models.Video{
		UserID:       userID,
		Title:        title,
		Description:  description,
		URL:          up.URL,
		ThumbnailURL: up.ThumbnailURL,
	}
	if err := s.videos.Create(ctx, v); err != nil {
		if derr := s.media.Delete(ctx, up.PublicID, cloudinary.ResourceVideo); derr != nil {
			s.log.Warn("orphaned video upload", "public_id", up.PublicID, "error", derr)
		}
		return nil, nil, err
	}
	out := s.dispatcher.Reward(ctx, NewAction(userID, domain.ActionVideoUpload, "video upload"))
	return v, out, nil
}

// Feed lists videos pinned first with reaction counts and comments.
func (s *VideoService) Feed(ctx context.Context, limit, offset int) ([]VideoView, error) {
	list, err := s.videos.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]VideoView, 0, len(list))
	for i := range list {
		v := &list[i]
		likes, dislikes, err := s.reactions.Counts(ctx, repository.VideoTarget(v.ID))
		if err != nil {
			return nil, err
		}
		comments, err := s.comments.ListByVideo(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, VideoView{Video: *v, Author: v.Author.ToCompact(), Likes: likes, Dislikes: dislikes, Comments: comments})
	}
	return out, nil
}

// React toggles a like or dislike on a video. Video reactions earn no points.
func (s *VideoService) React(ctx context.Context, userID, videoID uint, isLike bool) (*ReactionState, error) {
	if _, err := s.getVideo(ctx, videoID); err != nil {
		return nil, err
	}
	state, _, err := toggleReaction(ctx, s.reactions, userID, repository.VideoTarget(videoID), isLike)
	return state, err
}

func (s *VideoService) Comment(ctx context.Context, userID, videoID uint, content string) (*models.Comment, *ActionOutcome, error) {
	v, err := s.getVideo(ctx, videoID)
	if err != nil {
		return nil, nil, err
	}
	c := &models.Comment{UserID: userID, VideoID: &v.ID, Content: content}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, nil, err
	}
	if v.UserID != userID {
		if actor, err := s.users.GetByID(ctx, userID); err == nil {
			uid := userID
			err = s.notifications.Notify(ctx, NotifyInput{
				UserID:        v.UserID,
				Kind:          domain.NotificationComment,
				Text:          actor.Username + " commented on your video",
				RelatedUserID: &uid,
			})
			if err != nil {
				s.log.Warn("notify video author failed", "video_id", v.ID, "error", err)
			}
		}
	}
	out := s.dispatcher.Reward(ctx, NewAction(userID, domain.ActionVideoComment, "added video comment"))
	return c, out, nil
}

func (s *VideoService) getVideo(ctx context.Context, id uint) (*models.Video, error) {
	v, err := s.videos.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return v, err
}
