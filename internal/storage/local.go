package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore writes profile pictures under <dir>/profiles and returns the
// relative path they are served from (/uploads/profiles/<name>).
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "profiles"), 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(_ context.Context, filename, _ string, data []byte) (string, error) {
	name := uuid.New().String() + safeExt(filename)
	dst := filepath.Join(s.dir, "profiles", name)
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", err
	}

	if thumb, err := generateThumbnail(data); err == nil {
		_ = os.WriteFile(dst+"_thumb.jpg", thumb, 0o644)
	}
	return "/uploads/profiles/" + name, nil
}

func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	}
	return ".img"
}
