package handler

import (
	"net/http"
	"time"

	"plaza/internal/middleware"
	"plaza/internal/models"
	"plaza/internal/repository"
	"plaza/internal/service"
	"plaza/pkg/logger"

	"github.com/gin-gonic/gin"
)

const statisticsDays = 30

type AdminHandler struct {
	moderation *service.ModerationService
	adminRepo  *repository.AdminRepository
	auditRepo  *repository.AuditLogRepository
	log        *logger.Logger
}

func NewAdminHandler(moderation *service.ModerationService, adminRepo *repository.AdminRepository, auditRepo *repository.AuditLogRepository, log *logger.Logger) *AdminHandler {
	return &AdminHandler{moderation: moderation, adminRepo: adminRepo, auditRepo: auditRepo, log: log}
}

func auditMeta(c *gin.Context) service.AuditMeta {
	return service.AuditMeta{
		AdminID:   middleware.GetUserID(c),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminRepo.GetDashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to load stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Statistics returns per-day signups, posts and comments over the last 30 days.
func (h *AdminHandler) Statistics(c *gin.Context) {
	ctx := c.Request.Context()
	since := time.Now().UTC().AddDate(0, 0, -statisticsDays).Truncate(24 * time.Hour)
	series := map[string]interface{}{
		"users":    &models.User{},
		"posts":    &models.Post{},
		"comments": &models.Comment{},
		"videos":   &models.Video{},
	}
	out := gin.H{"since": since.Format("2006-01-02")}
	for name, model := range series {
		points, err := h.adminRepo.DailyCounts(ctx, model, since)
		if err != nil {
			respondError(c, h.log, err, "failed to load statistics")
			return
		}
		out[name] = points
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := parsePagination(c)
	users, total, err := h.adminRepo.ListUsers(c.Request.Context(), c.Query("search"), page, limit)
	if err != nil {
		respondError(c, h.log, err, "failed to list users")
		return
	}
	list := make([]gin.H, 0, len(users))
	for i := range users {
		list = append(list, accountJSON(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": list, "total": total, "page": page, "limit": limit})
}

func (h *AdminHandler) ToggleVerify(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	verified, err := h.moderation.ToggleVerify(c.Request.Context(), auditMeta(c), id)
	if err != nil {
		respondError(c, h.log, err, "failed to update user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_verified": verified})
}

func (h *AdminHandler) ResetPassword(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	password, err := h.moderation.ResetPassword(c.Request.Context(), auditMeta(c), id)
	if err != nil {
		respondError(c, h.log, err, "failed to reset password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"temporary_password": password})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.moderation.DeleteUser(c.Request.Context(), auditMeta(c), id); err != nil {
		respondError(c, h.log, err, "failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *AdminHandler) TogglePostPin(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pinned, err := h.moderation.TogglePostPin(c.Request.Context(), auditMeta(c), id)
	if err != nil {
		respondError(c, h.log, err, "failed to update post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_pinned": pinned})
}

func (h *AdminHandler) DeletePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.moderation.DeletePost(c.Request.Context(), auditMeta(c), id); err != nil {
		respondError(c, h.log, err, "failed to delete post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *AdminHandler) ToggleVideoPin(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pinned, err := h.moderation.ToggleVideoPin(c.Request.Context(), auditMeta(c), id)
	if err != nil {
		respondError(c, h.log, err, "failed to update video")
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_pinned": pinned})
}

func (h *AdminHandler) DeleteVideo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.moderation.DeleteVideo(c.Request.Context(), auditMeta(c), id); err != nil {
		respondError(c, h.log, err, "failed to delete video")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *AdminHandler) ListReports(c *gin.Context) {
	page, limit := parsePagination(c)
	list, err := h.moderation.ListReports(c.Request.Context(), c.Query("status"), limit, (page-1)*limit)
	if err != nil {
		respondError(c, h.log, err, "failed to list reports")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": list, "page": page, "limit": limit})
}

func (h *AdminHandler) UpdateReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required,oneof=resolved dismissed pending"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.moderation.SetReportStatus(c.Request.Context(), auditMeta(c), id, req.Status); err != nil {
		respondError(c, h.log, err, "failed to update report")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (h *AdminHandler) AuditLogs(c *gin.Context) {
	page, limit := parsePagination(c)
	list, err := h.auditRepo.List(c.Request.Context(), limit, (page-1)*limit)
	if err != nil {
		respondError(c, h.log, err, "failed to list audit logs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": list, "page": page, "limit": limit})
}

