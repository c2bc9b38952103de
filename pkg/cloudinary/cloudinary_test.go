package cloudinary

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://res.cloudinary.com/demo/video/upload/v1712/plaza/videos/abc-123.mp4", "plaza/videos/abc-123", true},
		{"https://res.cloudinary.com/demo/image/upload/q_auto,f_auto,w_800/plaza/posts/p1.jpg", "plaza/posts/p1", true},
		{"https://res.cloudinary.com/demo/image/upload/v1/other/x.png", "", false},
		{"https://example.com/x.png", "", false},
	}
	for _, tt := range tests {
		got, ok := PublicIDFromURL(tt.url)
		if got != tt.want || ok != tt.ok {
			t.Errorf("PublicIDFromURL(%q) = %q, %v; want %q, %v", tt.url, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDisabledClient(t *testing.T) {
	c, err := NewClientFromParams("", "", "")
	if err != nil {
		t.Fatalf("NewClientFromParams: %v", err)
	}
	if _, err := c.UploadVideo(context.Background(), strings.NewReader("x"), FolderVideos); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if err := c.Delete(context.Background(), "plaza/videos/x", ResourceVideo); err != nil {
		t.Fatalf("Delete on disabled client: %v", err)
	}
}
