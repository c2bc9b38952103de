package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"plaza/config"
	"plaza/internal/auth"
	"plaza/internal/models"
	"plaza/internal/repository"
	"plaza/pkg/logger"

	"gorm.io/gorm"
)

var (
	ErrEmailExists    = errors.New("email already registered")
	ErrUsernameExists = errors.New("username already taken")
	ErrInvalidCreds   = errors.New("invalid email or password")
	ErrNoPassword     = errors.New("account uses Google sign-in; set a password first")
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginResult struct {
	User    *models.User
	Tokens  TokenPair
	Reward  *ActionOutcome // nil unless this was the first login of the day
	NewUser bool
}

type AuthService struct {
	cfg        *config.Config
	userRepo   *repository.UserRepository
	dispatcher *ActivityDispatcher
	presence   *PresenceService
	log        *logger.Logger

	Now func() time.Time
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository, dispatcher *ActivityDispatcher, presence *PresenceService, log *logger.Logger) *AuthService {
	return &AuthService{
		cfg:        cfg,
		userRepo:   userRepo,
		dispatcher: dispatcher,
		presence:   presence,
		log:        log,
		Now:        time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, email, username, password string) (*models.User, TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, TokenPair{}, ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, TokenPair{}, err
	}
	_, err = s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return nil, TokenPair{}, ErrUsernameExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, TokenPair{}, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	u := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Level:        1,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, TokenPair{}, ErrUsernameExists
		}
		return nil, TokenPair{}, err
	}
	tokens, err := s.issue(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, tokens, nil
}

// Login checks credentials, marks the user online and grants the daily login reward.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCreds
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCreds
	}
	return s.completeLogin(ctx, u, false)
}

// LoginWithGoogle finds the user by Google ID, links Google to an existing
// account with the same email, or creates a new account.
func (s *AuthService) LoginWithGoogle(ctx context.Context, googleID, email, name, avatarURL string) (*LoginResult, error) {
	u, err := s.userRepo.GetByGoogleID(ctx, googleID)
	if err == nil {
		return s.completeLogin(ctx, u, false)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		if err := s.userRepo.LinkGoogleID(ctx, existing.ID, googleID, avatarURL); err != nil {
			return nil, err
		}
		return s.completeLogin(ctx, existing, false)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	username, err := s.freeUsername(ctx, googleUsername(email, name))
	if err != nil {
		return nil, err
	}
	gid := googleID
	u = &models.User{
		Email:      email,
		Username:   username,
		GoogleID:   &gid,
		AvatarURL:  avatarURL,
		IsVerified: true,
		Level:      1,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.completeLogin(ctx, u, true)
}

// completeLogin marks the user online and pays the daily login reward. A
// failed reward is logged and rolled back with its login day, so the next
// login that day pays it; sign-in itself still succeeds.
func (s *AuthService) completeLogin(ctx context.Context, u *models.User, isNew bool) (*LoginResult, error) {
	if err := s.presence.MarkOnline(ctx, u.ID); err != nil {
		s.log.Warn("mark online on login failed", "user_id", u.ID, "error", err)
	}
	res := &LoginResult{User: u, NewUser: isNew}
	out, err := s.dispatcher.RecordLogin(ctx, u.ID, s.Now().UTC().Format(DayLayout))
	if err != nil {
		s.log.Error("daily login reward failed", "user_id", u.ID, "error", err)
	} else if out != nil {
		res.Reward = out
		u.Points, u.Level = out.TotalPoints, out.Level
	}
	res.Tokens, err = s.issue(u)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	return s.presence.MarkOffline(ctx, userID)
}

// ChangePassword updates the user's password. Requires current password verification.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCreds
		}
		return err
	}
	if u.PasswordHash == "" {
		return ErrNoPassword
	}
	if !auth.CheckPassword(u.PasswordHash, currentPassword) {
		return ErrInvalidCreds
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.SetPasswordHash(ctx, userID, hash)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (TokenPair, error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPair{}, auth.ErrInvalidToken
		}
		return TokenPair{}, err
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *models.User) (TokenPair, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Username, u.IsAdmin)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func googleUsername(email, name string) string {
	base := strings.Split(email, "@")[0]
	if name != "" {
		base = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	}
	if base == "" {
		base = "user"
	}
	return base
}

// freeUsername appends a numeric suffix until the name is unused.
func (s *AuthService) freeUsername(ctx context.Context, base string) (string, error) {
	name := base
	for i := 1; i < 1000; i++ {
		_, err := s.userRepo.GetByUsername(ctx, name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return name, nil
		}
		if err != nil {
			return "", err
		}
		name = fmt.Sprintf("%s%d", base, i)
	}
	return fmt.Sprintf("%s%d", base, s.Now().UnixNano()%100000), nil
}
