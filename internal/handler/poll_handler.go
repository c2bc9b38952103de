package handler

import (
	"net/http"

	"plaza/internal/middleware"
	"plaza/internal/service"
	"plaza/pkg/logger"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	svc *service.PollService
	log *logger.Logger
}

func NewPollHandler(svc *service.PollService, log *logger.Logger) *PollHandler {
	return &PollHandler{svc: svc, log: log}
}

type CreatePollRequest struct {
	Question      string   `json:"question" binding:"required,max=500"`
	Options       []string `json:"options" binding:"required,min=2,max=4,dive,max=200"`
	DurationHours int      `json:"duration_hours" binding:"gte=0,lte=720"`
}

type VoteRequest struct {
	OptionID uint `json:"option_id" binding:"required"`
}

func (h *PollHandler) List(c *gin.Context) {
	_, limit := parsePagination(c)
	list, err := h.svc.ListActive(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.log, err, "failed to list polls")
		return
	}
	c.JSON(http.StatusOK, gin.H{"polls": list})
}

func (h *PollHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	res, err := h.svc.Results(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, err, "failed to load poll")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *PollHandler) Create(c *gin.Context) {
	var req CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, out, err := h.svc.Create(c.Request.Context(), middleware.GetUserID(c), req.Question, req.Options, req.DurationHours)
	if err != nil {
		respondError(c, h.log, err, "failed to create poll")
		return
	}
	c.JSON(http.StatusCreated, withReward(gin.H{"poll": p}, out))
}

func (h *PollHandler) Vote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)
	out, err := h.svc.Vote(c.Request.Context(), userID, id, req.OptionID)
	if err != nil {
		respondError(c, h.log, err, "failed to vote")
		return
	}
	res, err := h.svc.Results(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, h.log, err, "failed to load poll")
		return
	}
	c.JSON(http.StatusOK, withReward(gin.H{"poll": res}, out))
}
