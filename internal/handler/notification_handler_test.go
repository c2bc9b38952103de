package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"plaza/config"
	"plaza/internal/auth"
	"plaza/internal/database"
	"plaza/internal/domain"
	"plaza/internal/middleware"
	"plaza/internal/models"
	"plaza/internal/repository"
	"plaza/internal/service"
	"plaza/pkg/logger"

	"github.com/gin-gonic/gin"
)

func TestNotificationEndpoints(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "plaza.db") + "?_busy_timeout=5000"
	db, err := database.NewDB(&config.DatabaseConfig{Driver: "sqlite", DSN: dsn, MaxIdleConns: 1, MaxOpenConns: 1, ConnMaxLifetime: time.Hour})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	owner := &models.User{Username: "sam", Email: "sam@example.com", Level: 1}
	other := &models.User{Username: "tess", Email: "tess@example.com", Level: 1}
	for _, u := range []*models.User{owner, other} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}
	svc := service.NewNotificationService(repository.NewNotificationRepository(db), users, nil, nil, logger.Nop())
	var first *models.Notification
	for i := 0; i < 2; i++ {
		n, err := svc.Create(ctx, service.NotifyInput{UserID: owner.ID, Kind: domain.NotificationLike, Text: "tess liked your post"})
		if err != nil {
			t.Fatalf("create notification: %v", err)
		}
		if first == nil {
			first = n
		}
	}

	jwtCfg := &config.JWTConfig{AccessSecret: "s", RefreshSecret: "r", AccessExpiry: time.Minute, RefreshExpiry: time.Hour, Issuer: "plaza-test"}
	h := NewNotificationHandler(svc, logger.Nop())
	r := gin.New()
	me := r.Group("/me", middleware.AuthRequired(jwtCfg))
	me.GET("/notifications", h.List)
	me.GET("/notifications/unread-count", h.UnreadCount)
	me.PUT("/notifications/:id/read", h.MarkRead)
	me.PUT("/notifications/read-all", h.MarkAllRead)

	token := func(u *models.User) string {
		tok, err := auth.GenerateAccessToken(jwtCfg, u.ID, u.Username, false)
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		return tok
	}
	do := func(method, path, tok string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}
	unread := func(tok string) int64 {
		w := do(http.MethodGet, "/me/notifications/unread-count", tok)
		if w.Code != http.StatusOK {
			t.Fatalf("unread-count: status %d", w.Code)
		}
		var body struct {
			Count int64 `json:"count"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return body.Count
	}

	if w := do(http.MethodGet, "/me/notifications", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list: want=401 got=%d", w.Code)
	}
	ownerTok, otherTok := token(owner), token(other)
	if got := unread(ownerTok); got != 2 {
		t.Fatalf("unread: want=2 got=%d", got)
	}

	path := "/me/notifications/" + strconv.FormatUint(uint64(first.ID), 10) + "/read"
	if w := do(http.MethodPut, path, otherTok); w.Code != http.StatusNotFound {
		t.Fatalf("foreign mark read: want=404 got=%d", w.Code)
	}
	if w := do(http.MethodPut, path, ownerTok); w.Code != http.StatusOK {
		t.Fatalf("mark read: want=200 got=%d", w.Code)
	}
	if got := unread(ownerTok); got != 1 {
		t.Fatalf("unread after mark: want=1 got=%d", got)
	}
	if w := do(http.MethodPut, "/me/notifications/read-all", ownerTok); w.Code != http.StatusOK {
		t.Fatalf("read-all: want=200 got=%d", w.Code)
	}
	if got := unread(ownerTok); got != 0 {
		t.Fatalf("unread after read-all: want=0 got=%d", got)
	}

	w := do(http.MethodGet, "/me/notifications?limit=1", ownerTok)
	var list struct {
		Notifications []models.Notification `json:"notifications"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Notifications) != 1 || !list.Notifications[0].IsRead {
		t.Fatalf("list: %+v", list.Notifications)
	}
}
