package handler

import (
	"net/http"

	"plaza/internal/middleware"
	"plaza/internal/service"
	"plaza/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc *service.ModerationService
	log *logger.Logger
}

func NewReportHandler(svc *service.ModerationService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, log: log}
}

type CreateReportRequest struct {
	TargetType  string `json:"target_type" binding:"required,oneof=post comment"`
	TargetID    uint   `json:"target_id" binding:"required"`
	Reason      string `json:"reason" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

func (h *ReportHandler) Create(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, err := h.svc.Report(c.Request.Context(), middleware.GetUserID(c), req.TargetType, req.TargetID, req.Reason, req.Description)
	if err != nil {
		respondError(c, h.log, err, "failed to file report")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report": r})
}
