package handler

import (
	"net/http"

	"plaza/internal/middleware"
	"plaza/internal/service"
	"plaza/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	svc *service.ProfileService
	log *logger.Logger
}

func NewProfileHandler(svc *service.ProfileService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, log: log}
}

// Get handles GET /users/:username.
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, h.log, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update handles PUT /me/profile as multipart: bio and an optional avatar file.
func (h *ProfileHandler) Update(c *gin.Context) {
	avatar, ok := optionalFile(c, "avatar", maxImageSize)
	if !ok {
		return
	}
	if avatar != nil {
		defer avatar.Close()
	}
	u, err := h.svc.Update(c.Request.Context(), middleware.GetUserID(c), c.PostForm("bio"), avatar)
	if err != nil {
		respondError(c, h.log, err, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": accountJSON(u)})
}

func (h *ProfileHandler) MyBadges(c *gin.Context) {
	list, err := h.svc.MyBadges(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, err, "failed to load badges")
		return
	}
	c.JSON(http.StatusOK, gin.H{"badges": list})
}

func (h *ProfileHandler) Catalog(c *gin.Context) {
	list, err := h.svc.BadgeCatalog(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to load badges")
		return
	}
	c.JSON(http.StatusOK, gin.H{"badges": list})
}
