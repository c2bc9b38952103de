package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
	"github.com/google/uuid"
)

// Client uploads post images and videos and removes them again.
type Client interface {
	UploadImage(ctx context.Context, file io.Reader, folder string) (*UploadResult, error)
	UploadVideo(ctx context.Context, file io.Reader, folder string) (*UploadResult, error)
	Delete(ctx context.Context, publicID, resourceType string) error
}

type UploadResult struct {
	URL          string
	ThumbnailURL string
	PublicID     string
}

// Folders
const (
	FolderPosts   = "plaza/posts"
	FolderVideos  = "plaza/videos"
	FolderAvatars = "plaza/avatars"
)

const (
	ResourceImage = "image"
	ResourceVideo = "video"
)

const (
	ImageWidth = 800
	ThumbWidth = 200
)

// Eager transformations for upload (single string per SDK)
const (
	imageEager = "q_auto,f_auto,w_800,c_limit"
	videoEager = "q_auto:low,f_auto,w_1280"
)

var eagerAsyncFalse = false

// ErrNotConfigured is returned by the disabled client when credentials are missing.
var ErrNotConfigured = errors.New("media storage is not configured")

// BuildOptimizedImageURL returns a Cloudinary URL with transformations for optimized delivery.
func BuildOptimizedImageURL(cloudName, publicID string, width int) string {
	if width <= 0 {
		width = ImageWidth
	}
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/q_auto,f_auto,w_%d,c_fill/%s",
		cloudName, width, publicID)
}

// VideoPosterURL returns the first frame of a video as a jpg.
func VideoPosterURL(cloudName, publicID string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/video/upload/so_0/%s.jpg", cloudName, publicID)
}

// PublicIDFromURL extracts the public id (folder included, extension
// stripped) from a delivery URL of an asset uploaded under one of our folders.
func PublicIDFromURL(rawURL string) (string, bool) {
	i := strings.Index(rawURL, "/upload/")
	if i < 0 {
		return "", false
	}
	rest := rawURL[i+len("/upload/"):]
	j := strings.Index(rest, "plaza/")
	if j < 0 {
		return "", false
	}
	id := rest[j:]
	return strings.TrimSuffix(id, path.Ext(id)), true
}

type clientImpl struct {
	cloudName string
	uploader  *uploader.API
}

func newPublicID() string {
	return uuid.NewString()
}

// UploadImage uploads an image with eager optimizations (auto quality, format, resize).
func (c *clientImpl) UploadImage(ctx context.Context, file io.Reader, folder string) (*UploadResult, error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     folder,
		PublicID:   newPublicID(),
		Eager:      imageEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return nil, err
	}
	if result.Error.Message != "" {
		return nil, errors.New(result.Error.Message)
	}
	out := &UploadResult{URL: result.SecureURL, PublicID: result.PublicID}
	if len(result.Eager) > 0 {
		out.ThumbnailURL = result.Eager[0].SecureURL
	}
	if out.ThumbnailURL == "" {
		out.ThumbnailURL = BuildOptimizedImageURL(c.cloudName, result.PublicID, ThumbWidth)
	}
	return out, nil
}

// UploadVideo uploads a video with eager optimization.
func (c *clientImpl) UploadVideo(ctx context.Context, file io.Reader, folder string) (*UploadResult, error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		PublicID:     newPublicID(),
		ResourceType: ResourceVideo,
		Eager:        videoEager,
		EagerAsync:   &eagerAsyncFalse,
	})
	if err != nil {
		return nil, err
	}
	if result.Error.Message != "" {
		return nil, errors.New(result.Error.Message)
	}
	return &UploadResult{
		URL:          result.SecureURL,
		ThumbnailURL: VideoPosterURL(c.cloudName, result.PublicID),
		PublicID:     result.PublicID,
	}, nil
}

func (c *clientImpl) Delete(ctx context.Context, publicID, resourceType string) error {
	res, err := c.uploader.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	return nil
}

type disabledClient struct{}

func (disabledClient) UploadImage(context.Context, io.Reader, string) (*UploadResult, error) {
	return nil, ErrNotConfigured
}

func (disabledClient) UploadVideo(context.Context, io.Reader, string) (*UploadResult, error) {
	return nil, ErrNotConfigured
}

func (disabledClient) Delete(context.Context, string, string) error { return nil }

// NewClientFromParams builds a Client from Cloudinary cloud name, API key, and secret.
// With no cloud name it returns a client whose uploads fail with ErrNotConfigured.
func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	if cloudName == "" {
		return disabledClient{}, nil
	}
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{
		cloudName: cloudName,
		uploader:  up,
	}, nil
}
