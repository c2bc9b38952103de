package middleware

import (
	"time"

	"plaza/internal/service"
	"plaza/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TrackPresence marks the caller online and sweeps users who went quiet
// longer than offlineAfter to offline. Presence errors never fail the request.
func TrackPresence(presence *service.PresenceService, offlineAfter time.Duration, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if id := GetUserID(c); id != 0 {
			if err := presence.MarkOnline(ctx, id); err != nil {
				log.Warn("mark online failed", "user_id", id, "error", err)
			}
		}
		if _, err := presence.SweepOffline(ctx, offlineAfter); err != nil {
			log.Warn("presence sweep failed", "error", err)
		}
		c.Next()
	}
}
