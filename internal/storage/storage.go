package storage

import (
	"bytes"
	"context"
	"image"
	"mime/multipart"

	"github.com/disintegration/imaging"

	"github.com/UdayIge/User-Management-System/internal/apperr"
)

// MaxUploadSize is the hard cap on profile pictures.
const MaxUploadSize = 5 * 1024 * 1024

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Store persists an uploaded profile picture and returns the path recorded on
// the user document (a relative path for local storage, a URL for S3).
type Store interface {
	Save(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// ValidateImage gates uploads before any handler logic runs.
func ValidateImage(h *multipart.FileHeader) error {
	if h.Size == 0 || h.Size > MaxUploadSize {
		return apperr.Upload("File size exceeds the allowed limit (5MB)")
	}
	if !allowedTypes[h.Header.Get("Content-Type")] {
		return apperr.Upload("Invalid file type. Only JPEG, PNG, GIF, and WebP images are allowed.")
	}
	return nil
}

// generateThumbnail renders a 320px-wide JPEG preview. Failures are
// tolerated; the original upload still succeeds.
func generateThumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	thumb := imaging.Resize(img, 320, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
