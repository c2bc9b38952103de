package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"plaza/config"
	"plaza/internal/auth"
	"plaza/internal/service"
	"plaza/internal/ws"
	"plaza/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ChatWSHandler serves /ws/chat. A connection joins the global room and
// receives private messages and notifications for its user.
type ChatWSHandler struct {
	jwtCfg   *config.JWTConfig
	hub      *ws.Hub
	chat     *service.ChatService
	presence *service.PresenceService
	log      *logger.Logger
}

func NewChatWSHandler(jwtCfg *config.JWTConfig, hub *ws.Hub, chat *service.ChatService, presence *service.PresenceService, log *logger.Logger) *ChatWSHandler {
	return &ChatWSHandler{jwtCfg: jwtCfg, hub: hub, chat: chat, presence: presence, log: log}
}

// inbound frame: {"type":"message","content":"hi","to":"username"}; "to" empty means global.
type inboundFrame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	To      string `json:"to"`
}

func (h *ChatWSHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	claims, err := auth.ParseAccessToken(h.jwtCfg, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	conn, err := ws.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := ws.NewClient(claims.UserID, claims.Username)
	h.hub.Register(client)

	// the request context ends with the upgrade handler; the socket outlives it
	ctx := context.Background()
	if err := h.presence.MarkOnline(ctx, claims.UserID); err != nil {
		h.log.Warn("presence update failed", "user_id", claims.UserID, "error", err)
	}
	h.log.Debug("chat client connected", "user_id", claims.UserID)

	ws.Serve(conn, client, func(raw []byte) {
		h.handleFrame(ctx, claims.UserID, raw)
	})

	if !h.hub.IsConnected(claims.UserID) {
		if err := h.presence.MarkOffline(ctx, claims.UserID); err != nil {
			h.log.Warn("presence update failed", "user_id", claims.UserID, "error", err)
		}
	}
	h.log.Debug("chat client disconnected", "user_id", claims.UserID)
}

func (h *ChatWSHandler) handleFrame(ctx context.Context, userID uint, raw []byte) {
	var f inboundFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		h.replyError(userID, "invalid frame")
		return
	}
	switch f.Type {
	case "ping":
		if err := h.presence.MarkOnline(ctx, userID); err != nil {
			h.log.Warn("presence update failed", "user_id", userID, "error", err)
		}
		h.hub.SendToUser(userID, gin.H{"type": "pong"})
	case "message":
		content := strings.TrimSpace(f.Content)
		if content == "" || len(content) > 2000 {
			h.replyError(userID, "message must be 1-2000 characters")
			return
		}
		var err error
		if f.To == "" {
			_, _, err = h.chat.SendGlobal(ctx, userID, content)
		} else {
			_, _, err = h.chat.SendPrivate(ctx, userID, f.To, content)
		}
		if err != nil {
			h.log.Debug("chat send failed", "user_id", userID, "error", err)
			h.replyError(userID, err.Error())
		}
	default:
		h.replyError(userID, "unknown frame type")
	}
}

func (h *ChatWSHandler) replyError(userID uint, msg string) {
	h.hub.SendToUser(userID, gin.H{"type": "error", "error": msg})
}
