package handler

import (
	"net/http"

	"plaza/internal/models"
	"plaza/internal/repository"
	"plaza/internal/service"
	"plaza/pkg/logger"

	"github.com/gin-gonic/gin"
)

type PresenceHandler struct {
	svc  *service.PresenceService
	repo *repository.PresenceRepository
	log  *logger.Logger
}

func NewPresenceHandler(svc *service.PresenceService, repo *repository.PresenceRepository, log *logger.Logger) *PresenceHandler {
	return &PresenceHandler{svc: svc, repo: repo, log: log}
}

// Online returns how many users are online and a page of them.
func (h *PresenceHandler) Online(c *gin.Context) {
	ctx := c.Request.Context()
	_, limit := parsePagination(c)
	count, err := h.svc.CountOnline(ctx)
	if err != nil {
		respondError(c, h.log, err, "failed to count online users")
		return
	}
	users, err := h.repo.ListOnline(ctx, limit)
	if err != nil {
		respondError(c, h.log, err, "failed to list online users")
		return
	}
	list := make([]models.UserCompact, 0, len(users))
	for i := range users {
		list = append(list, users[i].ToCompact())
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "users": list})
}
