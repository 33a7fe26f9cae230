package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"blogcraft/internal/apperr"
	"blogcraft/internal/respond"
)

// maxUploadSize is the maximum accepted image size (10 MB).
const maxUploadSize = 10 << 20

// imageExtensions maps the accepted sniffed content types to the file
// extension used in the object key.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectStore stores uploaded files in a public bucket.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) error
	PublicBucket() string
	FileURL(key string) string
}

// UploadResponse is the body returned for a stored image.
type UploadResponse struct {
	URL string `json:"url"`
}

// Uploads handles featured image uploads.
type Uploads struct {
	store ObjectStore
	now   func() time.Time
}

// NewUploads creates an upload handler. A nil store makes every upload
// answer 503.
func NewUploads(store ObjectStore) *Uploads {
	return &Uploads{store: store, now: time.Now}
}

// Upload handles POST /uploads with a multipart "file" field.
func (u *Uploads) Upload(w http.ResponseWriter, r *http.Request) {
	if u.store == nil {
		respond.Message(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Error(w, r, apperr.Validation("file too large or malformed upload, maximum size is 10 MB"))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, r, apperr.Validation("no file provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(w, r, fmt.Errorf("read upload: %w", err))
		return
	}
	if len(data) == 0 {
		respond.Error(w, r, apperr.Validation("no file provided"))
		return
	}

	// Trust the bytes, not the client supplied name or header.
	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		respond.Error(w, r, apperr.Validation("file type %q is not allowed", contentType))
		return
	}

	now := u.now()
	key := fmt.Sprintf("images/%d/%02d/%s%s", now.Year(), now.Month(), uuid.New().String(), ext)

	if err := u.store.Upload(r.Context(), u.store.PublicBucket(), key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		respond.Error(w, r, fmt.Errorf("upload image: %w", err))
		return
	}
	slog.Info("image uploaded", "key", key, "size", len(data), "type", contentType)

	respond.JSON(w, http.StatusCreated, UploadResponse{URL: u.store.FileURL(key)})
}
