// Package images stores post header images in object storage and serves
// them back under /images/{key}. Backends: MinIO and Google Cloud Storage.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedType is returned for uploads that are not images.
var ErrUnsupportedType = errors.New("unsupported image type")

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Backend defines the object operations shared by the storage backends.
type Backend interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// Store uploads and serves header images. Keys are opaque uuids with the
// extension implied by the upload's content type.
type Store struct {
	backend Backend
	baseURL string
}

// NewStore wraps a backend. baseURL is the externally reachable server
// root used to build img_url values.
func NewStore(backend Backend, baseURL string) *Store {
	return &Store{
		backend: backend,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// EnsureBucket ensures the configured bucket exists.
func (s *Store) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// Upload stores an image and returns its object key.
func (s *Store) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	ext, ok := extByContentType[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	key := uuid.NewString() + ext
	if err := s.backend.Put(ctx, key, r, size, contentType); err != nil {
		return "", err
	}
	return key, nil
}

// Open returns a reader for a stored image together with its content type,
// inferred from the key extension.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if strings.Contains(key, "/") || strings.Contains(key, "..") {
		return nil, "", errors.New("invalid image key")
	}

	contentType := ""
	for ct, ext := range extByContentType {
		if path.Ext(key) == ext {
			contentType = ct
			break
		}
	}

	rc, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, "", err
	}
	return rc, contentType, nil
}

// Delete removes a stored image.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

// URL builds the public URL for a stored image, suitable for a post's
// img_url field.
func (s *Store) URL(key string) string {
	return s.baseURL + "/images/" + key
}
