package handler

import (
	"net/http"
	"strconv"

	"plaza/internal/middleware"
	"plaza/internal/service"
	"plaza/pkg/logger"

	"github.com/gin-gonic/gin"
)

const chatHistoryLimit = 50

type ChatHandler struct {
	svc *service.ChatService
	log *logger.Logger
}

func NewChatHandler(svc *service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, log: log}
}

type MessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

func historyLimit(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(chatHistoryLimit)))
	if limit < 1 || limit > 200 {
		return chatHistoryLimit
	}
	return limit
}

func (h *ChatHandler) Global(c *gin.Context) {
	list, err := h.svc.ListGlobal(c.Request.Context(), historyLimit(c))
	if err != nil {
		respondError(c, h.log, err, "failed to load messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": list})
}

func (h *ChatHandler) SendGlobal(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, out, err := h.svc.SendGlobal(c.Request.Context(), middleware.GetUserID(c), req.Content)
	if err != nil {
		respondError(c, h.log, err, "failed to send message")
		return
	}
	c.JSON(http.StatusCreated, withReward(gin.H{"message": m}, out))
}

// Private handles GET /chat/private/:username.
func (h *ChatHandler) Private(c *gin.Context) {
	list, other, err := h.svc.ListPrivate(c.Request.Context(), middleware.GetUserID(c), c.Param("username"), historyLimit(c))
	if err != nil {
		respondError(c, h.log, err, "failed to load conversation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"with": other.ToCompact(), "messages": list})
}

func (h *ChatHandler) SendPrivate(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, out, err := h.svc.SendPrivate(c.Request.Context(), middleware.GetUserID(c), c.Param("username"), req.Content)
	if err != nil {
		respondError(c, h.log, err, "failed to send message")
		return
	}
	c.JSON(http.StatusCreated, withReward(gin.H{"message": m}, out))
}
