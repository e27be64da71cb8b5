package handler

import (
	"context"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/recipebox/recipebox/pkg/logger"
	"github.com/recipebox/recipebox/pkg/metrics"
)

// MaxImageSize caps a single uploaded image.
const MaxImageSize = 5 << 20

// imageTypes lists the accepted upload extensions. SVG is left out because
// it can carry script and would be served from the API origin.
var imageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ImageStore is the object storage used for uploaded recipe images.
type ImageStore interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
}

// RegisterImageRoutes mounts POST /api/images and GET /api/images/:key. A nil
// store keeps the routes but answers 503 so clients get a stable error.
func RegisterImageRoutes(r gin.IRouter, store ImageStore) {
	h := &imageHandler{store: store}
	r.POST("/api/images", h.upload)
	r.GET("/api/images/:key", h.download)
}

type imageHandler struct {
	store ImageStore
}

func (h *imageHandler) upload(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Image storage is not configured"})
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		metrics.ImageUploads.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing image file"})
		return
	}
	if fh.Size > MaxImageSize {
		metrics.ImageUploads.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "Image is too large"})
		return
	}
	ext := strings.ToLower(path.Ext(fh.Filename))
	contentType, ok := imageTypes[ext]
	if !ok {
		metrics.ImageUploads.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unsupported image type"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		metrics.ImageUploads.WithLabelValues("error").Inc()
		fail(c, http.StatusInternalServerError, "Failed to upload image", err)
		return
	}
	defer f.Close()

	key := uuid.NewString() + ext
	if err := h.store.UploadFile(c.Request.Context(), key, f, fh.Size, contentType); err != nil {
		metrics.ImageUploads.WithLabelValues("error").Inc()
		fail(c, http.StatusInternalServerError, "Failed to upload image", err)
		return
	}
	metrics.ImageUploads.WithLabelValues("ok").Inc()
	logger.Debugf("stored image %s (%d bytes)", key, fh.Size)
	c.JSON(http.StatusCreated, gin.H{"url": "/api/images/" + key})
}

func (h *imageHandler) download(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Image storage is not configured"})
		return
	}
	key := c.Param("key")
	if key != path.Base(key) || strings.HasPrefix(key, ".") {
		c.JSON(http.StatusNotFound, gin.H{"message": "Image not found"})
		return
	}
	rc, err := h.store.DownloadFile(c.Request.Context(), key)
	if err != nil {
		logger.Debugf("image %s: %v", key, err)
		c.JSON(http.StatusNotFound, gin.H{"message": "Image not found"})
		return
	}
	defer rc.Close()
	contentType, ok := imageTypes[strings.ToLower(path.Ext(key))]
	if !ok {
		contentType = "application/octet-stream"
		c.Header("Content-Disposition", "attachment")
	}
	c.Header("Content-Type", contentType)
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		logger.Warnf("stream image %s: %v", key, err)
	}
}
