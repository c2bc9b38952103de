package handler

import (
	"net/http"

	"plaza/internal/middleware"
	"plaza/internal/service"
	"plaza/pkg/logger"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	svc *service.GameService
	log *logger.Logger
}

func NewGameHandler(svc *service.GameService, log *logger.Logger) *GameHandler {
	return &GameHandler{svc: svc, log: log}
}

// Overview returns the caller's best score per game and the leaderboards.
func (h *GameHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()
	best, err := h.svc.BestScores(ctx, middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, err, "failed to load scores")
		return
	}
	boards, err := h.svc.Leaderboards(ctx)
	if err != nil {
		respondError(c, h.log, err, "failed to load leaderboards")
		return
	}
	c.JSON(http.StatusOK, gin.H{"best_scores": best, "leaderboards": boards})
}

func (h *GameHandler) Leaderboards(c *gin.Context) {
	boards, err := h.svc.Leaderboards(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to load leaderboards")
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboards": boards})
}

func (h *GameHandler) SubmitSnake(c *gin.Context) {
	var req struct {
		Score int `json:"score" binding:"required,gt=0,lte=100000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	gs, out, err := h.svc.SubmitSnake(c.Request.Context(), middleware.GetUserID(c), req.Score)
	if err != nil {
		respondError(c, h.log, err, "failed to save score")
		return
	}
	c.JSON(http.StatusCreated, withReward(gin.H{"score": gs}, out))
}

func (h *GameHandler) QuizQuestion(c *gin.Context) {
	q, score := h.svc.QuizQuestion(middleware.GetUserID(c))
	c.JSON(http.StatusOK, gin.H{"question": q.Prompt, "score": score})
}

func (h *GameHandler) QuizAnswer(c *gin.Context) {
	var req struct {
		Answer string `json:"answer" binding:"required,max=200"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, out, err := h.svc.QuizAnswer(c.Request.Context(), middleware.GetUserID(c), req.Answer)
	if err != nil {
		respondError(c, h.log, err, "failed to check answer")
		return
	}
	c.JSON(http.StatusOK, withReward(gin.H{"result": res}, out))
}

func (h *GameHandler) GuessStart(c *gin.Context) {
	attempts := h.svc.GuessStart(middleware.GetUserID(c))
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}

func (h *GameHandler) Guess(c *gin.Context) {
	var req struct {
		Guess int `json:"guess" binding:"required,gte=1,lte=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, out, err := h.svc.Guess(c.Request.Context(), middleware.GetUserID(c), req.Guess)
	if err != nil {
		respondError(c, h.log, err, "failed to check guess")
		return
	}
	c.JSON(http.StatusOK, withReward(gin.H{"result": res}, out))
}
