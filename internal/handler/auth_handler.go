package handler

import (
	"errors"
	"net/http"

	"plaza/internal/auth"
	"plaza/internal/middleware"
	"plaza/internal/models"
	"plaza/internal/repository"
	"plaza/internal/service"
	"plaza/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc       *service.AuthService
	profiles  *service.ProfileService
	auditRepo *repository.AuditLogRepository
	log       *logger.Logger
}

func NewAuthHandler(svc *service.AuthService, profiles *service.ProfileService, auditRepo *repository.AuditLogRepository, log *logger.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, profiles: profiles, auditRepo: auditRepo, log: log}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=64,alphanum"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// accountJSON is the owner's view of their account, the only place the email is returned.
func accountJSON(u *models.User) gin.H {
	return gin.H{
		"id":           u.ID,
		"username":     u.Username,
		"email":        u.Email,
		"bio":          u.Bio,
		"avatar_url":   u.AvatarURL,
		"is_admin":     u.IsAdmin,
		"is_verified":  u.IsVerified,
		"points":       u.Points,
		"level":        u.Level,
		"is_online":    u.IsOnline,
		"last_seen_at": u.LastSeenAt,
		"created_at":   u.CreatedAt,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, tokens, err := h.svc.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists), errors.Is(err, service.ErrUsernameExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			respondError(c, h.log, err, "registration failed")
		}
		return
	}
	h.auditLog(c, u.ID, "register")
	c.JSON(http.StatusCreated, gin.H{
		"user":          accountJSON(u),
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCreds) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		respondError(c, h.log, err, "login failed")
		return
	}
	h.auditLog(c, res.User.ID, "login")
	c.JSON(http.StatusOK, loginJSON(res))
}

func loginJSON(res *service.LoginResult) gin.H {
	return withReward(gin.H{
		"user":          accountJSON(res.User),
		"access_token":  res.Tokens.AccessToken,
		"refresh_token": res.Tokens.RefreshToken,
		"is_new":        res.NewUser,
	}, res.Reward)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tokens, err := h.svc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		respondError(c, h.log, err, "refresh failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": tokens.AccessToken, "refresh_token": tokens.RefreshToken})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.svc.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, h.log, err, "logout failed")
		return
	}
	h.auditLog(c, userID, "logout")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.svc.ChangePassword(c.Request.Context(), middleware.GetUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCreds):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
		case errors.Is(err, service.ErrNoPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			respondError(c, h.log, err, "password change failed")
		}
		return
	}
	h.auditLog(c, middleware.GetUserID(c), "change_password")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Me handles GET /me.
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.profiles.Me(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, err, "failed to load account")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": accountJSON(u)})
}

// UpdateFCMToken handles PUT /me/fcm-token.
func (h *AuthHandler) UpdateFCMToken(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.profiles.SetFCMToken(c.Request.Context(), middleware.GetUserID(c), req.Token); err != nil {
		respondError(c, h.log, err, "failed to save token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AuthHandler) auditLog(c *gin.Context, userID uint, action string) {
	if h.auditRepo == nil {
		return
	}
	uid := userID
	err := h.auditRepo.Create(c.Request.Context(), &models.AuditLog{
		UserID:    &uid,
		Action:    action,
		Resource:  "auth",
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		h.log.Warn("audit log write failed", "action", action, "error", err)
	}
}
