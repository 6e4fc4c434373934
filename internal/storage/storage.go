package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// ObjectStorage defines the object operations image hosting needs,
// implemented by the MinIO and GCS backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	Bucket() string
}

// ImageStore stores item cover images in an object storage backend and
// hands back publicly servable URLs.
type ImageStore struct {
	backend ObjectStorage
}

// NewImageStore constructs an ImageStore over the provided backend.
func NewImageStore(backend ObjectStorage) *ImageStore {
	return &ImageStore{backend: backend}
}

// EnsureBucket ensures the configured bucket exists.
func (s *ImageStore) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// SaveItemImage uploads an item's cover image under a fresh key and
// returns its public URL. A fresh key per upload means stale CDN or
// browser caches never serve a replaced image.
func (s *ImageStore) SaveItemImage(ctx context.Context, itemID string, r io.Reader, size int64, contentType string) (string, error) {
	key := fmt.Sprintf("items/%s/%s%s", itemID, uuid.NewString(), extensionFor(contentType))
	if err := s.backend.Put(ctx, key, r, size, contentType); err != nil {
		return "", err
	}
	return s.backend.PublicURL(key), nil
}

// Delete removes an object from the configured bucket.
func (s *ImageStore) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

// Bucket returns the configured bucket name.
func (s *ImageStore) Bucket() string {
	return s.backend.Bucket()
}

func extensionFor(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
