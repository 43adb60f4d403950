package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/inkwell-blog/appserver/internal/images"
	"github.com/rs/zerolog"
)

const maxImageBytes = 16 << 20

// ImageHandler uploads and serves post header images when an object
// storage backend is configured.
type ImageHandler struct {
	store *images.Store
	renderer
}

func NewImageHandler(store *images.Store, logger zerolog.Logger) *ImageHandler {
	return &ImageHandler{
		store:    store,
		renderer: renderer{logger: logger},
	}
}

// ImageRouter registers image routes. Uploading is admin-only; serving
// is public so img_url values resolve for every visitor.
func ImageRouter(r chi.Router, handler *ImageHandler) {
	r.With(RequireAdmin).Post("/images", handler.Upload)
	r.Get("/images/{key}", handler.Serve)
}

// Upload stores an image and answers with its public URL, for use as a
// post's img_url.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	key, err := h.store.Upload(r.Context(), file, header.Size, contentType)
	if err != nil {
		if errors.Is(err, images.ErrUnsupportedType) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte(h.store.URL(key)))
}

func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	rc, contentType, err := h.store.Open(r.Context(), key)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer rc.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Debug().Err(err).Str("key", key).Msg("stream image")
	}
}
