package service

import (
	"context"
	"errors"
	"io"

	"plaza/internal/domain"
	"plaza/internal/models"
	"plaza/internal/repository"
	"plaza/pkg/cloudinary"

	"gorm.io/gorm"
)

type Profile struct {
	User   *models.User       `json:"user"`
	Badges []models.UserBadge `json:"badges"`
	Posts  []models.Post      `json:"posts"`
	// Points needed to reach the next level.
	ToNextLevel int `json:"to_next_level"`
}

type ProfileService struct {
	users  *repository.UserRepository
	badges *repository.BadgeRepository
	posts  *repository.PostRepository
	media  cloudinary.Client
}

func NewProfileService(users *repository.UserRepository, badges *repository.BadgeRepository, posts *repository.PostRepository, media cloudinary.Client) *ProfileService {
	return &ProfileService{users: users, badges: badges, posts: posts, media: media}
}

const profilePostLimit = 20

func (s *ProfileService) Get(ctx context.Context, username string) (*Profile, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	badges, err := s.badges.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByUser(ctx, u.ID, profilePostLimit)
	if err != nil {
		return nil, err
	}
	return &Profile{
		User:        u,
		Badges:      badges,
		Posts:       posts,
		ToNextLevel: u.Level*domain.PointsPerLevel - u.Points,
	}, nil
}

func (s *ProfileService) Me(ctx context.Context, userID uint) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return u, err
}

// Update sets the bio and, when avatar is given, uploads it as the new avatar.
func (s *ProfileService) Update(ctx context.Context, userID uint, bio string, avatar io.Reader) (*models.User, error) {
	u, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	avatarURL := u.AvatarURL
	if avatar != nil {
		up, err := s.media.UploadImage(ctx, avatar, cloudinary.FolderAvatars)
		if err != nil {
			return nil, err
		}
		avatarURL = up.ThumbnailURL
	}
	if err := s.users.UpdateProfile(ctx, userID, bio, avatarURL); err != nil {
		return nil, err
	}
	u.Bio, u.AvatarURL = bio, avatarURL
	return u, nil
}

func (s *ProfileService) SetFCMToken(ctx context.Context, userID uint, token string) error {
	return s.users.SetFCMToken(ctx, userID, token)
}

func (s *ProfileService) MyBadges(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	return s.badges.ListByUser(ctx, userID)
}

func (s *ProfileService) BadgeCatalog(ctx context.Context) ([]models.Badge, error) {
	return s.badges.ListAll(ctx)
}
