package handler

import (
	"net/http"

	"plaza/internal/middleware"
	"plaza/internal/service"
	"plaza/pkg/logger"

	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	svc *service.VideoService
	log *logger.Logger
}

func NewVideoHandler(svc *service.VideoService, log *logger.Logger) *VideoHandler {
	return &VideoHandler{svc: svc, log: log}
}

func (h *VideoHandler) Feed(c *gin.Context) {
	page, limit := parsePagination(c)
	list, err := h.svc.Feed(c.Request.Context(), limit, (page-1)*limit)
	if err != nil {
		respondError(c, h.log, err, "failed to load videos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": list, "page": page, "limit": limit})
}

// Upload handles POST /videos as multipart: title, description and the video file.
func (h *VideoHandler) Upload(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" || len(title) > 200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	file, ok := optionalFile(c, "video", maxVideoSize)
	if !ok {
		return
	}
	if file == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video file is required"})
		return
	}
	defer file.Close()
	v, out, err := h.svc.Upload(c.Request.Context(), middleware.GetUserID(c), title, c.PostForm("description"), file)
	if err != nil {
		respondError(c, h.log, err, "video upload failed")
		return
	}
	c.JSON(http.StatusCreated, withReward(gin.H{"video": v}, out))
}

func (h *VideoHandler) React(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	state, err := h.svc.React(c.Request.Context(), middleware.GetUserID(c), id, *req.IsLike)
	if err != nil {
		respondError(c, h.log, err, "failed to react")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reaction": state})
}

func (h *VideoHandler) Comment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cm, out, err := h.svc.Comment(c.Request.Context(), middleware.GetUserID(c), id, req.Content)
	if err != nil {
		respondError(c, h.log, err, "failed to add comment")
		return
	}
	c.JSON(http.StatusCreated, withReward(gin.H{"comment": cm}, out))
}
