package handler

import (
	"net/http"

	"plaza/internal/middleware"
	"plaza/internal/service"
	"plaza/pkg/logger"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
	log *logger.Logger
}

func NewPostHandler(svc *service.PostService, log *logger.Logger) *PostHandler {
	return &PostHandler{svc: svc, log: log}
}

type CommentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type ReactRequest struct {
	IsLike *bool `json:"is_like" binding:"required"`
}

func (h *PostHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	posts, total, err := h.svc.List(c.Request.Context(), limit, (page-1)*limit)
	if err != nil {
		respondError(c, h.log, err, "failed to list posts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "total": total, "page": page, "limit": limit})
}

func (h *PostHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, err, "failed to load post")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Create handles POST /posts as multipart: title, content and an optional image.
func (h *PostHandler) Create(c *gin.Context) {
	title, content := c.PostForm("title"), c.PostForm("content")
	if title == "" || content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and content are required"})
		return
	}
	if len(title) > 200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is too long"})
		return
	}
	image, ok := optionalFile(c, "image", maxImageSize)
	if !ok {
		return
	}
	if image != nil {
		defer image.Close()
	}
	p, out, err := h.svc.Create(c.Request.Context(), middleware.GetUserID(c), title, content, image)
	if err != nil {
		respondError(c, h.log, err, "failed to create post")
		return
	}
	c.JSON(http.StatusCreated, withReward(gin.H{"post": p}, out))
}

func (h *PostHandler) Comment(c *gin.Context) {
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

// React toggles a like or dislike: repeating the same reaction removes it.
func (h *PostHandler) React(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	state, out, err := h.svc.React(c.Request.Context(), middleware.GetUserID(c), id, *req.IsLike)
	if err != nil {
		respondError(c, h.log, err, "failed to react")
		return
	}
	c.JSON(http.StatusOK, withReward(gin.H{"reaction": state}, out))
}
