package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"plaza/internal/domain"
	"plaza/internal/games"
	"plaza/internal/service"
	"plaza/pkg/cloudinary"
	"plaza/pkg/logger"

	"github.com/gin-gonic/gin"
)

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

var badRequestErrs = []error{
	domain.ErrInvalidAction,
	domain.ErrInvalidPoints,
	domain.ErrInvalidNotificationKind,
	domain.ErrPollClosed,
	domain.ErrInvalidPollOption,
	service.ErrPollOptions,
	service.ErrInvalidScore,
	service.ErrReportTarget,
	service.ErrSelfMessage,
	games.ErrNoSession,
}

// respondError maps domain errors to status codes; anything else is logged and returned as 500 with msg.
func respondError(c *gin.Context, log *logger.Logger, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, service.ErrCannotDeleteAdmin):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	case errors.Is(err, cloudinary.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	for _, target := range badRequestErrs {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	log.Error(msg, "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// withReward adds the gamification outcome of an action to a response body.
func withReward(body gin.H, out *service.ActionOutcome) gin.H {
	if out != nil {
		body["reward"] = out
	}
	return body
}

const (
	maxImageSize = 10 << 20
	maxVideoSize = 100 << 20
)

// optionalFile opens the named multipart file if present. The caller closes it.
func optionalFile(c *gin.Context, field string, maxSize int64) (multipart.File, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, true
	}
	if fh.Size > maxSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": field + " is too large"})
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read " + field})
		return nil, false
	}
	return f, true
}
