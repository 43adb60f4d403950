package images

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (f *fakeBackend) EnsureBucket(context.Context) error { return nil }

func (f *fakeBackend) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeBackend) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBackend) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeBackend) Bucket() string { return "test-bucket" }

func TestUpload_KeyCarriesExtension(t *testing.T) {
	backend := newFakeBackend()
	store := NewStore(backend, "https://blog.example.com/")

	key, err := store.Upload(context.Background(), strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".png"), "key %q", key)
	assert.Equal(t, []byte("png-bytes"), backend.objects[key])
	assert.Equal(t, "image/png", backend.types[key])
}

func TestUpload_RejectsNonImages(t *testing.T) {
	store := NewStore(newFakeBackend(), "https://blog.example.com")

	_, err := store.Upload(context.Background(), strings.NewReader("<html>"), 6, "text/html")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestOpen_RoundTrip(t *testing.T) {
	backend := newFakeBackend()
	store := NewStore(backend, "https://blog.example.com")
	ctx := context.Background()

	key, err := store.Upload(ctx, strings.NewReader("jpeg-bytes"), 10, "image/jpeg")
	require.NoError(t, err)

	rc, contentType, err := store.Open(ctx, key)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
	assert.Equal(t, "image/jpeg", contentType)
}

func TestOpen_RejectsTraversal(t *testing.T) {
	store := NewStore(newFakeBackend(), "https://blog.example.com")

	for _, key := range []string{"../secret.png", "a/b.png", ".."} {
		_, _, err := store.Open(context.Background(), key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestURL(t *testing.T) {
	store := NewStore(newFakeBackend(), "https://blog.example.com/")
	assert.Equal(t, "https://blog.example.com/images/abc.png", store.URL("abc.png"))
}
