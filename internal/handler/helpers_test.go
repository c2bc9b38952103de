package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"plaza/internal/domain"
	"plaza/internal/service"
	"plaza/pkg/logger"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 20},
		{"?page=3&limit=50", 3, 50},
		{"?page=0&limit=0", 1, 20},
		{"?page=-2&limit=500", 1, 20},
		{"?page=abc", 1, 20},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/posts"+tc.query, nil)
		page, limit := parsePagination(c)
		if page != tc.wantPage || limit != tc.wantLimit {
			t.Fatalf("%q: want=(%d,%d) got=(%d,%d)", tc.query, tc.wantPage, tc.wantLimit, page, limit)
		}
	}
}

func TestRespondErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("award user 3: %w", domain.ErrNotFound), http.StatusNotFound},
		{domain.ErrPollClosed, http.StatusBadRequest},
		{domain.ErrInvalidPollOption, http.StatusBadRequest},
		{service.ErrSelfMessage, http.StatusBadRequest},
		{fmt.Errorf("%w: bad kind", domain.ErrInvalidAction), http.StatusBadRequest},
		{service.ErrCannotDeleteAdmin, http.StatusForbidden},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		respondError(c, logger.Nop(), tc.err, "failed")
		if w.Code != tc.want {
			t.Fatalf("%v: want=%d got=%d", tc.err, tc.want, w.Code)
		}
	}
}

func TestParseIDRejectsGarbage(t *testing.T) {
	r := gin.New()
	r.GET("/posts/:id", func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	for path, want := range map[string]int{
		"/posts/12":  http.StatusOK,
		"/posts/0":   http.StatusBadRequest,
		"/posts/abc": http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != want {
			t.Fatalf("%s: want=%d got=%d", path, want, w.Code)
		}
	}
}
