// Package storage owns uploaded image files on the local file system.
package storage

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"github.com/google/uuid"

	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/webp" // register WebP decoder
)

const DefaultMaxUploadSizeMB = 10

// Upload kinds determine the directory an image lands in.
const (
	KindPost   = "posts"
	KindAvatar = "avatars"
)

var allowedMIMEs = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore saves and removes uploaded images under a base directory.
// Files are keyed by kind and upload date: <kind>/2006/01/02/<uuid><ext>.
type ImageStore struct {
	baseDir      string
	maxSizeBytes int64
}

// NewImageStore returns a store rooted at baseDir.
func NewImageStore(baseDir string, maxSizeMB int) *ImageStore {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxUploadSizeMB
	}
	return &ImageStore{
		baseDir:      baseDir,
		maxSizeBytes: int64(maxSizeMB) * 1024 * 1024,
	}
}

// Save validates and writes the image, returning its store-relative path.
func (s *ImageStore) Save(kind string, content []byte) (string, error) {
	if len(content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > s.maxSizeBytes {
		return "", models.NewValidationError(
			fmt.Sprintf("File too large (max %dMB)", s.maxSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(content)
	ext, ok := allowedMIMEs[detectedType]
	if !ok {
		return "", models.NewValidationError("Invalid image type")
	}

	if _, _, err := image.Decode(bytes.NewReader(content)); err != nil {
		return "", models.NewValidationError("Invalid image file")
	}

	rel := filepath.Join(kind, time.Now().UTC().Format("2006/01/02"), uuid.New().String()+ext)
	abs := filepath.Join(s.baseDir, rel)

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := os.WriteFile(abs, content, 0o644); err != nil {
		return "", models.NewInternalError(err)
	}

	return filepath.ToSlash(rel), nil
}

// Remove deletes a stored file. Removal is best-effort: a missing file or an
// unremovable one is logged, never surfaced, so the primary database mutation
// is not masked.
func (s *ImageStore) Remove(path string) {
	if strings.TrimSpace(path) == "" {
		return
	}

	abs := filepath.Join(s.baseDir, filepath.FromSlash(path))
	if err := os.Remove(abs); err != nil {
		if !os.IsNotExist(err) {
			middleware.Logger.Warn("failed to remove stored image",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			observability.ImageRemovals.WithLabelValues("error").Inc()
		}
		return
	}
	observability.ImageRemovals.WithLabelValues("removed").Inc()
}

// Exists reports whether the stored file is present on disk.
func (s *ImageStore) Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(s.baseDir, filepath.FromSlash(path)))
	return err == nil
}
