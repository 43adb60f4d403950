package handlers

import (
	"net/http"

	"github.com/rs/zerolog"
)

// PageHandler serves the static pages.
type PageHandler struct {
	renderer
}

func NewPageHandler(logger zerolog.Logger) *PageHandler {
	return &PageHandler{renderer: renderer{logger: logger}}
}

func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "about.html", nil)
}

func (h *PageHandler) Contact(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "contact.html", nil)
}

// Healthz is a liveness probe.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
